package audit

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"go-approvals/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAuditLogsRoute(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	require.NoError(t, svc.LogChange(ctx, ActionWorkflowCreated, EntityWorkflow, "wf-1", "admin-1", nil))
	require.NoError(t, svc.LogChange(ctx, ActionApprovalSubmitted, EntityApproval, "da-1", "sub-1", nil))
	require.NoError(t, svc.LogChange(ctx, ActionApprovalRejected, EntityApproval, "da-1", "se-1",
		map[string]Change{"rejection_reason": {New: "wrong revision"}}))

	app := fiber.New()
	NewAuditApi(NewAuditController(svc), &config.Config{SkipAuth: true}).Setup(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/audit-logs?entity=document_approvals&record_id=da-1&limit=1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var logs []AuditLog
	require.NoError(t, json.Unmarshal(body, &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, ActionApprovalRejected, logs[0].Action)
	assert.Equal(t, "wrong revision", logs[0].Changes["rejection_reason"].New)
}
