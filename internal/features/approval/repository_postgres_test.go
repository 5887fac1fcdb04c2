package approval

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approvalRowColumns = []string{
	"id", "document_id", "document_type", "project_id", "document_title", "metadata", "workflow_id",
	"current_stage_id", "status", "submitted_by", "submitted_at", "notes", "stage_started_at", "completed_at",
	"completed_by", "rejection_reason", "overdue_stage_id", "version", "updated_at",
}

var stageRowColumns = []string{
	"id", "document_approval_id", "stage_id", "stage_order", "position", "stage_name", "approver_id",
	"required_role", "status", "decided_by", "decided_at", "comments", "signature",
}

func newPostgresRepo(t *testing.T) (*PostgresApprovalRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresApprovalRepository(db), mock
}

func TestPostgresCreateApproval(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	now := time.Now()
	approval := &DocumentApproval{
		ID: "da-1", DocumentID: "doc-1", DocumentType: "drawing", WorkflowID: "wf-1",
		CurrentStageID: "s-1", Status: StatusInProgress, SubmittedBy: "u-1", SubmittedAt: now,
		StageStartedAt: now, Version: 1, UpdatedAt: now, Metadata: map[string]string{"rev": "C"},
	}
	stages := []StageApproval{
		{ID: "sa-1", DocumentApprovalID: "da-1", StageID: "s-1", StageOrder: 1, StageName: "A", RequiredRole: "site_engineer", Status: StatusPending},
		{ID: "sa-2", DocumentApprovalID: "da-1", StageID: "s-2", StageOrder: 2, Position: 1, StageName: "B", RequiredRole: "architect", Status: StatusPending},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO document_approvals")).
		WithArgs("da-1", "doc-1", "drawing", "", "", []byte(`{"rev":"C"}`), "wf-1", "s-1", "in_progress", "u-1",
			now, "", now, nil, "", "", "", 1, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for _, s := range stages {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stage_approvals")).
			WithArgs(s.ID, "da-1", s.StageID, s.StageOrder, s.Position, s.StageName, "", s.RequiredRole,
				"pending", "", nil, "", []byte(nil)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.CreateApproval(context.Background(), approval, stages))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateApprovalDuplicate(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO document_approvals")).
		WillReturnError(&pq.Error{Code: pgUniqueViolation, Message: "duplicate key value"})
	mock.ExpectRollback()

	err := repo.CreateApproval(context.Background(), &DocumentApproval{ID: "da-2", DocumentID: "doc-1"}, nil)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateApprovalCompareAndSwap(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	now := time.Now()
	approval := &DocumentApproval{ID: "da-1", CurrentStageID: "s-2", Status: StatusInProgress, StageStartedAt: now, UpdatedAt: now, Version: 3}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE document_approvals SET")).
		WithArgs("s-2", "in_progress", now, nil, "", "", "", int64(4), now, "da-1", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateApproval(context.Background(), approval, 3))
	assert.Equal(t, int64(4), approval.Version)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE document_approvals SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateApproval(context.Background(), approval, 3)
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, int64(4), approval.Version, "version untouched on conflict")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetApprovalDecodesMetadata(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM document_approvals WHERE id = $1")).
		WithArgs("da-1").
		WillReturnRows(sqlmock.NewRows(approvalRowColumns).AddRow(
			"da-1", "doc-1", "rfi", "p-1", "RFI 12", []byte(`{"value":"250"}`), "wf-1",
			"s-1", "approved", "u-1", now, "", now, now,
			"u-2", "", "", int64(5), now,
		))

	a, err := repo.GetApproval(context.Background(), "da-1")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, StatusApproved, a.Status)
	assert.Equal(t, "250", a.Metadata["value"])
	require.NotNil(t, a.CompletedAt)
	assert.Equal(t, int64(5), a.Version)

	mock.ExpectQuery(regexp.QuoteMeta("FROM document_approvals WHERE id = $1")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(approvalRowColumns))
	a, err = repo.GetApproval(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, a)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListStagesAndDecide(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM stage_approvals")).
		WillReturnRows(sqlmock.NewRows(stageRowColumns).
			AddRow("sa-1", "da-1", "s-1", 1, 0, "A", "", "site_engineer", "approved", "u-1", now, "ok", []byte("sig")).
			AddRow("sa-2", "da-1", "s-2", 2, 1, "B", "arch-2", "architect", "pending", "", nil, "", nil))

	rows, err := repo.ListStages(context.Background(), "da-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].DecidedAt)
	assert.Equal(t, []byte("sig"), rows[0].Signature)
	assert.Nil(t, rows[1].DecidedAt)
	assert.Equal(t, "arch-2", rows[1].ApproverID)

	decision := rows[1]
	decision.Status = StatusApproved
	decision.DecidedBy = "arch-2"
	decision.DecidedAt = &now

	mock.ExpectExec(regexp.QuoteMeta("UPDATE stage_approvals SET")).
		WithArgs("approved", "arch-2", now, "", []byte(nil), "sa-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	decided, err := repo.DecideStage(context.Background(), &decision)
	require.NoError(t, err)
	assert.True(t, decided)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE stage_approvals SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	decided, err = repo.DecideStage(context.Background(), &decision)
	require.NoError(t, err)
	assert.False(t, decided)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListStagesEmptyInput(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	rows, err := repo.ListStages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
