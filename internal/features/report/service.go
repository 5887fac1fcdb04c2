package report

import (
	"context"
	"fmt"
	"time"

	"go-approvals/internal/features/approval"
	"go-approvals/internal/features/workflow"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportService interface {
	// ExportApprovals renders the approval register as an XLSX workbook with
	// one sheet of document approvals and one of stage rows.
	ExportApprovals(ctx context.Context, filter approval.ApprovalFilter) ([]byte, string, error)
}

type ReportServiceImpl struct {
	Approvals approval.ApprovalRepository
	Workflows workflow.WorkflowService
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewReportService(approvals approval.ApprovalRepository, workflows workflow.WorkflowService, logger *zap.Logger) ReportService {
	return &ReportServiceImpl{
		Approvals: approvals,
		Workflows: workflows,
		Logger:    logger,
		Now:       time.Now,
	}
}

func (s *ReportServiceImpl) ExportApprovals(ctx context.Context, filter approval.ApprovalFilter) ([]byte, string, error) {
	approvals, err := s.Approvals.ListApprovals(ctx, filter)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list approvals: %w", err)
	}

	ids := make([]string, len(approvals))
	for i, a := range approvals {
		ids[i] = a.ID
	}
	stages, err := s.Approvals.ListStages(ctx, ids...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list stage approvals: %w", err)
	}

	workflows := s.loadWorkflows(ctx, approvals)
	documents := make(map[string]string, len(approvals))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ApprovalsSheet); err != nil {
		return nil, "", err
	}
	if _, err := f.NewSheet(StagesSheet); err != nil {
		return nil, "", err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", err
	}
	for sheet, columns := range map[string][]string{ApprovalsSheet: approvalColumns, StagesSheet: stageColumns} {
		if err := writeHeader(f, sheet, columns, headerStyle); err != nil {
			return nil, "", err
		}
	}

	for i, a := range approvals {
		documents[a.ID] = a.DocumentID

		workflowName, currentStage := a.WorkflowID, a.CurrentStageID
		if wf, ok := workflows[a.WorkflowID]; ok {
			workflowName = wf.Name
			if st, ok := wf.Stage(a.CurrentStageID); ok {
				currentStage = st.Name
			}
		}
		if a.Status.IsTerminal() {
			currentStage = ""
		}

		row := []interface{}{
			a.ID, a.DocumentID, a.DocumentTitle, a.DocumentType, a.ProjectID, workflowName, string(a.Status),
			currentStage, a.SubmittedBy, formatTime(&a.SubmittedAt), formatTime(a.CompletedAt), a.CompletedBy, a.RejectionReason,
		}
		if err := writeRow(f, ApprovalsSheet, i+2, row); err != nil {
			return nil, "", err
		}
	}

	for i, st := range stages {
		row := []interface{}{
			st.DocumentApprovalID, documents[st.DocumentApprovalID], st.StageOrder, st.StageName, st.RequiredRole,
			st.ApproverID, string(st.Status), st.DecidedBy, formatTime(st.DecidedAt), st.Comments, len(st.Signature) > 0,
		}
		if err := writeRow(f, StagesSheet, i+2, row); err != nil {
			return nil, "", err
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("approvals_%s.xlsx", s.Now().UTC().Format("20060102_150405"))
	s.Logger.Info("Approval register exported",
		zap.Int("approvals", len(approvals)),
		zap.Int("stages", len(stages)),
	)
	return buffer.Bytes(), filename, nil
}

func (s *ReportServiceImpl) loadWorkflows(ctx context.Context, approvals []approval.DocumentApproval) map[string]*workflow.ApprovalWorkflow {
	out := make(map[string]*workflow.ApprovalWorkflow)
	for _, a := range approvals {
		if _, seen := out[a.WorkflowID]; seen {
			continue
		}
		wf, err := s.Workflows.GetWorkflow(ctx, a.WorkflowID)
		if err != nil {
			// The export still lists the raw ids
			s.Logger.Warn("Workflow missing from export", zap.String("workflow_id", a.WorkflowID), zap.Error(err))
			continue
		}
		out[a.WorkflowID] = wf
	}
	return out
}

func writeHeader(f *excelize.File, sheet string, columns []string, style int) error {
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, 18); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, Split: false, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeRow(f *excelize.File, sheet string, rowIdx int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
