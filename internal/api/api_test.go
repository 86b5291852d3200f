package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ab3d1/moneygrid/internal/api"
	"github.com/ab3d1/moneygrid/internal/api/apierr"
	"github.com/ab3d1/moneygrid/internal/api/response"
	"github.com/ab3d1/moneygrid/internal/factory"
	"github.com/ab3d1/moneygrid/internal/model"
	"github.com/ab3d1/moneygrid/internal/services/admin"
	"github.com/ab3d1/moneygrid/internal/storage/memory"
)

const testAdminSecret = "CYBER_ADMIN_2025"

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	storage *memory.Storage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{
		AdminConfig: admin.Config{Secret: testAdminSecret},
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		AllocatorService: app.AllocatorService,
		RosterService:    app.RosterService,
		AdminService:     app.AdminService,
	})

	return &testServer{
		handler: router,
		storage: app.Storage.(*memory.Storage),
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) adminLogin(t *testing.T) string {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/admin/login", map[string]string{"secret": testAdminSecret}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.AdminLoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRegisterPlayer(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/assignments", map[string]string{"name": "Neo"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.RegisterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.Equal(t, "Neo", resp.Assignment.Name)
	assert.GreaterOrEqual(t, resp.Assignment.Number, 1)
	assert.LessOrEqual(t, resp.Assignment.Number, 9)
	assert.NotEmpty(t, resp.Assignment.Fortune)
	assert.Equal(t, model.MessageClass("success"), resp.Message.Type)
	assert.Equal(t, fmt.Sprintf("Success! You rolled a %d. Claim your destiny!", resp.Assignment.Number), resp.Message.Text)
}

func TestRegisterEmptyName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/assignments", map[string]string{"name": "   "}, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodeEmptyName, apiErr.Code)
	assert.Equal(t, "You must enter a name to proceed, Player 1.", apiErr.Message)
	assert.Equal(t, model.MessageError, apiErr.Class)
}

func TestRegisterDuplicateName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/assignments", map[string]string{"name": "Neo"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var first response.RegisterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &first))

	// Same player, different case and spacing
	rr = ts.request(http.MethodPost, "/api/v1/assignments", map[string]string{"name": "  NEO "}, "")
	require.Equal(t, http.StatusConflict, rr.Code)

	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodeAlreadyRegistered, apiErr.Code)
	assert.Equal(t, model.MessageInfo, apiErr.Class)
	assert.Contains(t, apiErr.Message, fmt.Sprintf("number %d", first.Assignment.Number))
}

func TestRegisterExhausted(t *testing.T) {
	ts := newTestServer(t)

	for i := 1; i <= 9; i++ {
		rr := ts.request(http.MethodPost, "/api/v1/assignments", map[string]string{"name": fmt.Sprintf("player%d", i)}, "")
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := ts.request(http.MethodPost, "/api/v1/assignments", map[string]string{"name": "straggler"}, "")
	require.Equal(t, http.StatusConflict, rr.Code)

	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodeSlotsExhausted, apiErr.Code)
}

func TestRegisterAssignsUniqueNumbers(t *testing.T) {
	ts := newTestServer(t)

	seen := make(map[int]string)
	for i := 1; i <= 9; i++ {
		rr := ts.request(http.MethodPost, "/api/v1/assignments", map[string]string{"name": fmt.Sprintf("player%d", i)}, "")
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp response.RegisterResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

		prior, taken := seen[resp.Assignment.Number]
		require.False(t, taken, "number %d assigned to both %s and %s", resp.Assignment.Number, prior, resp.Assignment.Name)
		seen[resp.Assignment.Number] = resp.Assignment.Name
	}
}

func TestGetRoster(t *testing.T) {
	ts := newTestServer(t)

	ts.request(http.MethodPost, "/api/v1/assignments", map[string]string{"name": "Neo"}, "")
	ts.request(http.MethodPost, "/api/v1/assignments", map[string]string{"name": "Trinity"}, "")

	rr := ts.request(http.MethodGet, "/api/v1/assignments", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var roster response.Roster
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &roster))

	assert.Equal(t, 2, roster.Count)
	assert.Equal(t, 9, roster.Capacity)
	assert.Len(t, roster.Assignments, 2)
}

func TestAdminLoginWrongSecret(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/admin/login", map[string]string{"secret": "WRONG"}, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodeAuthDenied, apiErr.Code)
	assert.Equal(t, "ACCESS DENIED: INVALID CORE OVERRIDE CODE", apiErr.Message)
}

func TestPurgeRequiresAdmin(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodDelete, "/api/v1/assignments", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/assignments", nil, "adm_bogus")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPurge(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminLogin(t)

	ts.request(http.MethodPost, "/api/v1/assignments", map[string]string{"name": "Neo"}, "")

	rr := ts.request(http.MethodDelete, "/api/v1/assignments", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.PurgeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Arena purged. All slots now available.", resp.Message.Text)
	assert.Equal(t, model.MessageClass("neutral"), resp.Message.Type)

	rr = ts.request(http.MethodGet, "/api/v1/assignments", nil, "")
	var roster response.Roster
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &roster))
	assert.Equal(t, 0, roster.Count)
}

func TestExportAndImport(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminLogin(t)

	ts.request(http.MethodPost, "/api/v1/assignments", map[string]string{"name": "Neo"}, "")
	ts.request(http.MethodPost, "/api/v1/assignments", map[string]string{"name": "Trinity"}, "")

	rr := ts.request(http.MethodGet, "/api/v1/assignments/export", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var export model.RosterExport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &export))
	assert.Equal(t, 2, export.TotalPlayers)
	assert.NotEmpty(t, export.ExportDate)

	// Purge, then restore from the export
	rr = ts.request(http.MethodDelete, "/api/v1/assignments", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/assignments/import", export, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var imported response.ImportResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &imported))
	assert.Equal(t, 2, imported.Roster.Count)
	assert.Equal(t, "Imported 2 assignments.", imported.Message.Text)

	rr = ts.request(http.MethodGet, "/api/v1/assignments", nil, "")
	var roster response.Roster
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &roster))
	assert.Equal(t, 2, roster.Count)
}

func TestImportDuplicateNumbers(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminLogin(t)

	export := model.RosterExport{
		Assignments: []model.ExportedAssignment{
			{Name: "Neo", Number: 3},
			{Name: "Trinity", Number: 3},
		},
	}

	rr := ts.request(http.MethodPost, "/api/v1/assignments/import", export, token)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodeDuplicateNumbers, apiErr.Code)
}

func TestImportInvalidBody(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminLogin(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments/import", bytes.NewBufferString("not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodeInvalidFormat, apiErr.Code)
}

func TestAdminLogout(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminLogin(t)

	rr := ts.request(http.MethodPost, "/api/v1/admin/logout", nil, token)
	require.Equal(t, http.StatusNoContent, rr.Code)

	// Token is no longer valid
	rr = ts.request(http.MethodDelete, "/api/v1/assignments", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// contextWithImmediateCancel returns a request context that is already
// cancelled, so the SSE handler writes its initial events and returns
func contextWithImmediateCancel(req *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	return ctx, cancel
}

func TestRosterEventsStreamSendsSnapshot(t *testing.T) {
	ts := newTestServer(t)

	ts.request(http.MethodPost, "/api/v1/assignments", map[string]string{"name": "Neo"}, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assignments/events", nil)
	ctx, cancel := contextWithImmediateCancel(req)
	defer cancel()

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req.WithContext(ctx))

	body := rr.Body.String()
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, "event: roster")
	assert.Contains(t, body, "Neo")
}
