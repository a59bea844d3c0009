package cmd

import (
	"github.com/Azure/swiftreport/pkg/dbclient"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	flagDataCollectionEnabled = "data-collection-enabled"
	flagStoreType             = "store-type"
	flagEndpoint              = "endpoint"
	flagDatabase              = "database"
	flagEvent                 = "event"
	flagCustomColumns         = "custom-columns"
)

func addDBFlags(flags *pflag.FlagSet) {
	flags.Bool(flagDataCollectionEnabled, false, "whether or not enable collecting analysis data")
	flags.String(flagStoreType, string(dbclient.None), "db client type")
	flags.String(flagEndpoint, "", "kusto endpoint")
	flags.String(flagDatabase, "", "kusto database")
	flags.String(flagEvent, "", "kusto event")
	flags.StringSlice(flagCustomColumns, []string{}, "custom kusto columns, format: {column}:{datatype}:{value}")
}

func newDBOption(v *viper.Viper) *dbclient.DBOption {
	return &dbclient.DBOption{
		DataCollectionEnabled: v.GetBool(configKeys[flagDataCollectionEnabled]),
		DbType:                dbclient.ClientType(v.GetString(configKeys[flagStoreType])),
		KustoOption: dbclient.KustoOption{
			Endpoint:      v.GetString(configKeys[flagEndpoint]),
			Database:      v.GetString(configKeys[flagDatabase]),
			Event:         v.GetString(configKeys[flagEvent]),
			CustomColumns: v.GetStringSlice(configKeys[flagCustomColumns]),
		},
	}
}
