package introspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cuemby/flowrt/pkg/builder"
	"github.com/cuemby/flowrt/pkg/builtin"
	"github.com/cuemby/flowrt/pkg/flow"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTwoNotContainer(t *testing.T) *flow.Container {
	t.Helper()
	b := builder.New(nil)
	require.NoError(t, b.AddNode("not1", builtin.Not, nil))
	require.NoError(t, b.AddNode("not2", builtin.Not, nil))
	require.NoError(t, b.Connect("not1", "OUT", -1, "not2", "IN", -1))
	require.NoError(t, b.ExportInPort("not1", "IN", -1, "IN"))
	require.NoError(t, b.ExportOutPort("not2", "OUT", -1, "OUT"))

	ct, err := b.GetNodeType()
	require.NoError(t, err)

	n := nodetype.NewNode(ct, "root", nil, nil)
	require.NoError(t, ct.Open(n, nil))

	c, ok := flow.ContainerOf(n)
	require.True(t, ok)
	return c
}

func TestServer_HealthReportsHealthy(t *testing.T) {
	s := New(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestServer_GraphReportsChildrenAndConnections(t *testing.T) {
	c := buildTwoNotContainer(t)
	s := New(c)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/graph", nil)
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp GraphResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Nodes, 2)
	assert.Equal(t, "boolean/not", resp.Nodes[0].Type)
	require.Len(t, resp.Connections, 1)
}

func TestServer_GraphWithoutContainerIsUnavailable(t *testing.T) {
	s := New(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/graph", nil)
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
