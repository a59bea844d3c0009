package dbclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/Azure/azure-kusto-go/kusto/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKustoOptionValidate(t *testing.T) {
	t.Setenv(tenantIDKey, "")
	t.Setenv(clientIDKey, "")
	t.Setenv(clientSecretKey, "")

	o := &KustoOption{}
	assert.ErrorIs(t, o.Validate(), ErrEnvRequired, tenantIDKey)

	t.Setenv(tenantIDKey, "tenant-id")
	assert.ErrorIs(t, o.Validate(), ErrEnvRequired, clientIDKey)
	assert.Equal(t, "tenant-id", o.tenantID)

	t.Setenv(clientIDKey, "client-id")
	assert.ErrorIs(t, o.Validate(), ErrEnvRequired, clientSecretKey)
	assert.Equal(t, "client-id", o.clientID)

	t.Setenv(clientSecretKey, "client-secret")
	assert.ErrorIs(t, o.Validate(), ErrFlagRequired, "endpoint")
	assert.Equal(t, "client-secret", o.clientSecret)

	o.Endpoint = "https://fake.kusto.windows.net"
	assert.ErrorIs(t, o.Validate(), ErrFlagRequired, "database")

	o.Database = "database"
	assert.ErrorIs(t, o.Validate(), ErrFlagRequired, "event")

	o.Event = "SwiftMeasures"
	assert.NoError(t, o.Validate())

	o.CustomColumns = []string{": :"}
	assert.ErrorIs(t, o.Validate(), ErrFormatCustomColumn)

	o.CustomColumns = []string{"pipeline"}
	assert.ErrorIs(t, o.Validate(), ErrFormatCustomColumn)

	o.CustomColumns = []string{"branch:string:main", "buildUrl:string:https://ci/1"}
	require.NoError(t, o.Validate())
	assert.Equal(t, map[string]interface{}{"branch": "main", "buildUrl": "https://ci/1"}, o.extraData)
	require.Len(t, o.extraMappings, 2)
	assert.Equal(t, "$.Extra.branch", o.extraMappings[0].Properties.Path)

	require.NoError(t, o.Validate())
	assert.Len(t, o.extraMappings, 2, "validate twice does not duplicate mappings")
}

type fakeIngestor struct {
	payloads [][]byte
	err      error
}

func (f *fakeIngestor) FromReader(_ context.Context, reader io.Reader, _ ...ingest.FileOption) (*ingest.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	f.payloads = append(f.payloads, data)
	return &ingest.Result{}, nil
}

func TestKustoClientStore(t *testing.T) {
	in := &fakeIngestor{}
	var out bytes.Buffer
	client := newKustoClient(in, &KustoOption{
		Writer:    &out,
		extraData: map[string]interface{}{"branch": "main"},
	})

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := client.Store(context.Background(), &Data{
		PreciseTimestamp: now,
		ProjectName:      "App",
		FilePath:         "Sources/Foo.swift",
		FileType:         "MAIN",
		Metric:           "lines_to_cover",
		ValueType:        "INT",
		Value:            "3",
		NumericValue:     3,
	})
	require.NoError(t, err)
	require.Len(t, in.payloads, 1)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(in.payloads[0], &decoded))
	assert.Equal(t, "Sources/Foo.swift", decoded["filePath"])
	assert.Equal(t, "lines_to_cover", decoded["metric"])
	assert.Equal(t, 3.0, decoded["numericValue"])
	assert.Equal(t, map[string]interface{}{"branch": "main"}, decoded["Extra"])
	assert.Contains(t, out.String(), "send to kusto:")

	in.err = assert.AnError
	err = client.Store(context.Background(), &Data{Metric: "tests"})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBasicMappings(t *testing.T) {
	columns := make(map[string]string)
	for _, m := range basicMappings {
		columns[m.Column] = m.Properties.Path
	}

	// every json field of Data has a column
	data, err := json.Marshal(&Data{})
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	for field := range fields {
		assert.Equal(t, "$."+field, columns[field], field)
	}
}
