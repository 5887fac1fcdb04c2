package audit

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var auditColumns = []string{"id", "action", "entity", "record_id", "actor_id", "changes", "timestamp"}

func TestPostgresCreateAuditLog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresAuditRepository(db)

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WithArgs("log-1", "approval.rejected", EntityApproval, "da-1", "se-1",
			[]byte(`{"status":{"old":"in_progress","new":"rejected"}}`), now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WithArgs("log-2", "approval.submitted", EntityApproval, "da-2", "sub-1", []byte("{}"), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), &AuditLog{
		ID: "log-1", Action: ActionApprovalRejected, Entity: EntityApproval, RecordID: "da-1", ActorID: "se-1",
		Changes:   map[string]Change{"status": {Old: "in_progress", New: "rejected"}},
		Timestamp: now,
	}))
	require.NoError(t, repo.Create(context.Background(), &AuditLog{
		ID: "log-2", Action: ActionApprovalSubmitted, Entity: EntityApproval, RecordID: "da-2", ActorID: "sub-1",
		Timestamp: now,
	}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListAuditLogs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresAuditRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_logs WHERE entity = $1 AND record_id = $2 ORDER BY timestamp DESC, id LIMIT $3 OFFSET $4")).
		WithArgs(EntityApproval, "da-1", int64(20), int64(20)).
		WillReturnRows(sqlmock.NewRows(auditColumns).
			AddRow("log-2", "approval.advanced", EntityApproval, "da-1", "se-1", []byte(`{"current_stage_id":{"old":"s-1","new":"s-2"}}`), now).
			AddRow("log-1", "approval.submitted", EntityApproval, "da-1", "sub-1", []byte(`{}`), now))

	logs, err := repo.List(context.Background(), AuditFilter{Entity: EntityApproval, RecordID: "da-1"}, 20, 20)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, ActionApprovalAdvanced, logs[0].Action)
	assert.Equal(t, Change{Old: "s-1", New: "s-2"}, logs[0].Changes["current_stage_id"])
	assert.Nil(t, logs[1].Changes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListAuditLogsWithoutFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresAuditRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_logs ORDER BY timestamp DESC, id LIMIT $1 OFFSET $2")).
		WithArgs(int64(5), int64(0)).
		WillReturnRows(sqlmock.NewRows(auditColumns))

	logs, err := repo.List(context.Background(), AuditFilter{}, 5, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
