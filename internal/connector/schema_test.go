package connector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSchema(t *testing.T) {
	mock := &mockTransport{response: jsonResponse(200,
		`{"idx1":{"mappings":{"t1":{},"t2":{}}}}`)}
	router := newTestRouter(mock)

	result := router.Route(context.Background(), ActionGetConfig, nil)

	require.Equal(t, StatusSuccess, result.Status)
	require.Len(t, mock.requests, 1)
	assert.Equal(t, "http://es.example.com:9200/_mapping", mock.requests[0].URL)
	assert.Equal(t, "GET", mock.requests[0].Method)

	require.Len(t, result.Data, 1)
	entry, ok := result.Data[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "idx1", entry["index"])
	assert.Equal(t, []string{"t1", "t2"}, entry["types"])

	assert.Equal(t, 1, result.Summary[summaryTotalIndices])
}

func TestGetSchemaMultipleIndicesSorted(t *testing.T) {
	mock := &mockTransport{response: jsonResponse(200,
		`{"zulu":{"mappings":{"doc":{}}},"alpha":{"mappings":{"b":{},"a":{}}}}`)}
	router := newTestRouter(mock)

	result := router.Route(context.Background(), ActionGetConfig, nil)

	require.Equal(t, StatusSuccess, result.Status)
	require.Len(t, result.Data, 2)

	first := result.Data[0].(map[string]interface{})
	second := result.Data[1].(map[string]interface{})
	assert.Equal(t, "alpha", first["index"])
	assert.Equal(t, []string{"a", "b"}, first["types"])
	assert.Equal(t, "zulu", second["index"])

	assert.Equal(t, 2, result.Summary[summaryTotalIndices])
}

func TestGetSchemaIdempotent(t *testing.T) {
	// Two calls against an unchanged mapping produce identical summaries
	// and data ordering.
	body := `{"idx2":{"mappings":{"y":{}}},"idx1":{"mappings":{"x":{}}}}`

	mock := &mockTransport{response: jsonResponse(200, body)}
	router := newTestRouter(mock)

	first := router.Route(context.Background(), ActionGetConfig, nil)
	second := router.Route(context.Background(), ActionGetConfig, nil)

	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Data, second.Data)
}

func TestGetSchemaEmptyMappingSucceeds(t *testing.T) {
	mock := &mockTransport{response: jsonResponse(200, `{}`)}
	router := newTestRouter(mock)

	result := router.Route(context.Background(), ActionGetConfig, nil)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Empty(t, result.Data)
	assert.Equal(t, 0, result.Summary[summaryTotalIndices])
}

func TestGetSchemaMissingMappingsEntry(t *testing.T) {
	mock := &mockTransport{response: jsonResponse(200, `{"idx1":{}}`)}
	router := newTestRouter(mock)

	result := router.Route(context.Background(), ActionGetConfig, nil)

	require.Equal(t, StatusSuccess, result.Status)
	require.Len(t, result.Data, 1)
	entry := result.Data[0].(map[string]interface{})
	assert.Equal(t, []string{}, entry["types"])
}

func TestGetSchemaNonObjectResponseFails(t *testing.T) {
	mock := &mockTransport{response: jsonResponse(200, `["not","an","object"]`)}
	router := newTestRouter(mock)

	result := router.Route(context.Background(), ActionGetConfig, nil)

	assert.Equal(t, StatusFailure, result.Status)
	assert.Contains(t, result.Message, "Mapping response was not a JSON object")
}

func TestGetSchemaFailureAppendsNoData(t *testing.T) {
	mock := &mockTransport{err: errors.New("connection reset")}
	router := newTestRouter(mock)

	result := router.Route(context.Background(), ActionGetConfig, nil)

	assert.Equal(t, StatusFailure, result.Status)
	assert.Contains(t, result.Message, "connection reset")
	assert.Empty(t, result.Data)
}
