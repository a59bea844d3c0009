// kusto.go is the kusto client wrapper of the library
// "github.com/Azure/azure-kusto-go/kusto"
package dbclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Azure/azure-kusto-go/kusto"
	"github.com/Azure/azure-kusto-go/kusto/ingest"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/sirupsen/logrus"
)

var (
	ErrEnvRequired        = errors.New("environment is required for kusto db")
	ErrFlagRequired       = errors.New("flag is required for kusto db")
	ErrFormatCustomColumn = errors.New("wrong format, kusto custom column format is {column}:{datatype}:{value}")
)

const (
	// The required credentials used to authenticate on kusto.
	tenantIDKey     string = "KUSTO_TENANT_ID"
	clientIDKey     string = "KUSTO_CLIENT_ID"
	clientSecretKey string = "KUSTO_CLIENT_SECRET"

	Separator = ":"
)

// ingestor is the part of *ingest.Ingestion the client uses.
type ingestor interface {
	FromReader(ctx context.Context, reader io.Reader, options ...ingest.FileOption) (*ingest.Result, error)
}

func NewKustoClient(option *KustoOption) (DbClient, error) {
	credential, err := azidentity.NewClientSecretCredential(option.tenantID, option.clientID, option.clientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("credential: %w", err)
	}

	kcsb := kusto.NewConnectionStringBuilder(option.Endpoint).WithTokenCredential(credential)
	kustoClient, err := kusto.New(kcsb)
	if err != nil {
		return nil, fmt.Errorf("kusto: %w", err)
	}

	in, err := ingest.New(kustoClient, option.Database, option.Event)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	return newKustoClient(in, option), nil
}

func newKustoClient(in ingestor, option *KustoOption) *KustoClient {
	logger := option.Logger
	if logger == nil {
		logger = logrus.New()
	}
	w := option.Writer
	if w == nil {
		w = io.Discard
	}

	return &KustoClient{
		ingestor:  in,
		mappings:  append(append([]mapping(nil), basicMappings...), option.extraMappings...),
		extraData: option.extraData,
		w:         w,
		logger:    logger.WithField("source", "kusto"),
	}
}

// KustoClient wraps the kusto ingestor and the extra column data and corresponding mappings.
type KustoClient struct {
	ingestor  ingestor
	mappings  []mapping
	extraData map[string]interface{}
	w         io.Writer
	logger    logrus.FieldLogger
}

var _ DbClient = (*KustoClient)(nil)

// Store stores the data to kusto.
func (client *KustoClient) Store(ctx context.Context, data *Data) error {
	data.Extra = client.extraData
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("data json marshal: %w", err)
	}

	mappingsBytes, err := json.Marshal(client.mappings)
	if err != nil {
		return fmt.Errorf("mappings json marshal: %w", err)
	}

	_, err = client.ingestor.FromReader(
		ctx,
		bytes.NewReader(dataBytes),
		ingest.FileFormat(ingest.JSON),
		ingest.IngestionMapping(mappingsBytes, ingest.JSON),
	)
	if err != nil {
		return fmt.Errorf("ingestor from reader: %w", err)
	}

	client.logger.Debugf("send %s of %s", data.Metric, data.FilePath)
	fmt.Fprintf(client.w, "send to kusto: %s\n", string(dataBytes))

	return nil
}

// properties used for kusto transform on json data.
type properties struct {
	Path      string `json:"Path"`
	Transform string `json:"Transform,omitempty"`
}

// mapping used to build mapping between kusto column and json data field.
type mapping struct {
	Column     string     `json:"Column"`
	Datatype   string     `json:"Datatype,omitempty"`
	Properties properties `json:"Properties"`
}

func newMapping(column, datatype string) mapping {
	return mapping{
		Column:     column,
		Datatype:   datatype,
		Properties: properties{Path: "$." + column},
	}
}

// basicMappings gives the fundamental mappings for Data struct and kusto table
var basicMappings = []mapping{
	newMapping("preciseTimestamp", "datetime"),
	newMapping("projectName", "string"),
	newMapping("revision", "string"),
	newMapping("filePath", "string"),
	newMapping("fileType", "string"),
	newMapping("metric", "string"),
	newMapping("valueType", "string"),
	newMapping("value", "string"),
	newMapping("numericValue", "real"),
}

// KustoOption wraps the credential and kusto server information for building kusto client.
type KustoOption struct {
	Endpoint      string
	Database      string
	Event         string
	CustomColumns []string
	Writer        io.Writer
	Logger        logrus.FieldLogger

	tenantID     string
	clientID     string
	clientSecret string

	extraData     map[string]interface{}
	extraMappings []mapping
}

// Validate checks the validation of the input on kusto option.
func (o *KustoOption) Validate() error {
	if o.tenantID = os.Getenv(tenantIDKey); o.tenantID == "" {
		return fmt.Errorf("%s %w", tenantIDKey, ErrEnvRequired)
	}

	if o.clientID = os.Getenv(clientIDKey); o.clientID == "" {
		return fmt.Errorf("%s %w", clientIDKey, ErrEnvRequired)
	}

	if o.clientSecret = os.Getenv(clientSecretKey); o.clientSecret == "" {
		return fmt.Errorf("%s %w", clientSecretKey, ErrEnvRequired)
	}

	if o.Endpoint == "" {
		return fmt.Errorf("%s %w", "endpoint", ErrFlagRequired)
	}
	if o.Database == "" {
		return fmt.Errorf("%s %w", "database", ErrFlagRequired)
	}
	if o.Event == "" {
		return fmt.Errorf("%s %w", "event", ErrFlagRequired)
	}

	o.extraData = nil
	o.extraMappings = nil

	// each custom column has format: {column}:{datatype}:{value}
	// token 0: column name
	// token 1: datatype
	// token 2: column value
	for _, m := range o.CustomColumns {
		tokens := strings.SplitN(m, Separator, 3)
		if len(tokens) != 3 {
			return fmt.Errorf("%s %w", m, ErrFormatCustomColumn)
		}

		if strings.TrimSpace(tokens[0]) == "" || strings.TrimSpace(tokens[1]) == "" || tokens[2] == "" {
			return fmt.Errorf("%s %w: empty token", m, ErrFormatCustomColumn)
		}

		// build extra data kusto mapping
		o.extraMappings = append(o.extraMappings, mapping{
			Column:   tokens[0],
			Datatype: tokens[1],
			Properties: properties{
				Path: fmt.Sprintf("$.Extra.%s", tokens[0]),
			},
		})

		if o.extraData == nil {
			o.extraData = make(map[string]interface{})
		}

		// add extra data to final data struct
		o.extraData[tokens[0]] = tokens[2]
	}

	return nil
}
