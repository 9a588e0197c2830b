package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/roomledger/roomledger/internal/audit/domain"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	propertyservice "github.com/roomledger/roomledger/internal/property/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type auditRecorder struct {
	actions []string
}

func (a *auditRecorder) Record(_ context.Context, action, _ string, _ *string, _ map[string]any) error {
	a.actions = append(a.actions, action)
	return nil
}

func (a *auditRecorder) List(context.Context, auditdomain.ListRequest) ([]auditdomain.Entry, error) {
	return nil, nil
}

func newTestServer(t *testing.T) (*Server, *auditRecorder) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&propertydomain.Property{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	audit := &auditRecorder{}

	srv := &Server{
		engine: NewEngine(log),
		propertySvc: propertyservice.New(propertyservice.Params{
			DB:    conn,
			Log:   log,
			GenID: node,
		}),
		auditSvc: audit,
	}
	srv.registerAPIRoutes()
	return srv, audit
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestCreateProperty_ReturnsCreatedRecord(t *testing.T) {
	srv, audit := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/properties", `{"name":"Khu trọ An Phú","address":"12 Lê Lợi"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data propertydomain.Property `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Khu trọ An Phú", resp.Data.Name)
	assert.NotZero(t, resp.Data.ID)

	assert.Equal(t, []string{"property:create"}, audit.actions)
}

func TestCreateProperty_BlankNameIsValidationError(t *testing.T) {
	srv, audit := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/properties", `{"name":"  "}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	assert.Empty(t, audit.actions)
}

func TestGetProperty_UnknownIDIsNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/api/properties/12345", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error.Type)
}

func TestUpdateProperty_PartialPatch(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/properties", `{"name":"Khu trọ Bình Hòa","address":"5 Hùng Vương"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var created struct {
		Data propertydomain.Property `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doRequest(t, srv, http.MethodPatch, "/api/properties/"+created.Data.ID.String(), `{"address":"7 Hùng Vương"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Data propertydomain.Property `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Khu trọ Bình Hòa", updated.Data.Name)
	assert.Equal(t, "7 Hùng Vương", updated.Data.Address)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
