package dbclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type ClientType string

const (
	None  ClientType = "None"
	Kusto ClientType = "Kusto"
)

// DbClient interface for storing analysis data.
type DbClient interface {
	Store(context context.Context, data *Data) error
}

// Data is one measure of one file, flattened for ingestion.
type Data struct {
	PreciseTimestamp time.Time `json:"preciseTimestamp"` // time send to db
	ProjectName      string    `json:"projectName"`      // name of the analyzed project
	Revision         string    `json:"revision"`         // commit the analysis ran on
	FilePath         string    `json:"filePath"`         // file path relative to the project directory
	FileType         string    `json:"fileType"`         // MAIN or TEST
	Metric           string    `json:"metric"`           // metric key, e.g. lines_to_cover
	ValueType        string    `json:"valueType"`        // INT, MILLISEC, PERCENT or DATA
	Value            string    `json:"value"`            // rendered value
	NumericValue     float64   `json:"numericValue"`     // value of INT, MILLISEC and PERCENT metrics

	Extra map[string]interface{} `json:"Extra,omitempty"` // extra data that passing accordingly
}

var ErrUnsupportedDBType = errors.New(`supported type is "Kusto", unsupported DB client type`)

type DBOption struct {
	DataCollectionEnabled bool
	DbType                ClientType
	KustoOption           KustoOption
}

func (o *DBOption) Validate() error {
	if !o.DataCollectionEnabled {
		return nil
	}

	if o.DbType == Kusto {
		return o.KustoOption.Validate()
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedDBType, o.DbType)
}

func (o *DBOption) GetDbClient(logger logrus.FieldLogger) (DbClient, error) {
	switch o.DbType {
	case Kusto:
		o.KustoOption.Logger = logger
		return NewKustoClient(&o.KustoOption)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDBType, o.DbType)
	}
}
