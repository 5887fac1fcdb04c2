package workflow

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"go-approvals/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc, _ := newTestService()
	app := fiber.New()
	NewWorkflowApi(NewWorkflowController(svc), &config.Config{SkipAuth: true}).Setup(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestWorkflowRoutes(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/api/workflows", twoStageInput())
	require.Equal(t, fiber.StatusCreated, status, string(body))

	var created ApprovalWorkflow
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Len(t, created.Stages, 2)

	status, body = doJSON(t, app, "GET", "/api/workflows/"+created.ID, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body = doJSON(t, app, "GET", "/api/workflows/resolve?document_type=drawing", nil)
	require.Equal(t, fiber.StatusOK, status)
	var resolved ApprovalWorkflow
	require.NoError(t, json.Unmarshal(body, &resolved))
	assert.Equal(t, created.ID, resolved.ID)

	status, _ = doJSON(t, app, "PUT", "/api/workflows/"+created.ID+"/active", map[string]bool{"active": false})
	assert.Equal(t, fiber.StatusOK, status)

	status, body = doJSON(t, app, "GET", "/api/workflows?active=true", nil)
	require.Equal(t, fiber.StatusOK, status)
	var active []ApprovalWorkflow
	require.NoError(t, json.Unmarshal(body, &active))
	assert.Empty(t, active)

	status, _ = doJSON(t, app, "GET", "/api/workflows/resolve?document_type=drawing", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestWorkflowRouteErrors(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "invalid workflow", method: "POST", path: "/api/workflows", body: CreateWorkflowInput{Name: "x"}, want: fiber.StatusBadRequest},
		{name: "unknown workflow", method: "GET", path: "/api/workflows/nope", want: fiber.StatusNotFound},
		{name: "resolve without type", method: "GET", path: "/api/workflows/resolve", want: fiber.StatusBadRequest},
		{name: "bad active filter", method: "GET", path: "/api/workflows?active=maybe", want: fiber.StatusBadRequest},
		{name: "missing active flag", method: "PUT", path: "/api/workflows/nope/active", body: map[string]string{}, want: fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := doJSON(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, status)
		})
	}
}
