package deadline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-approvals/internal/config"
	"go-approvals/internal/features/approval"
	"go-approvals/internal/features/notification"
	"go-approvals/internal/features/workflow"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type DeadlineService interface {
	// Scan flags approvals whose current stage ran past its deadline and sends
	// one overdue notice per stage. It never approves or rejects anything.
	Scan(ctx context.Context) (*ScanResult, error)
	Status() SchedulerStatus
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
}

type DeadlineServiceImpl struct {
	approvals approval.ApprovalRepository
	workflows workflow.WorkflowService
	notifier  notification.Notifier
	logger    *zap.Logger
	schedule  string
	now       func() time.Time

	scheduler *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	lastScan  *ScanResult
}

func NewDeadlineService(
	cfg *config.Config,
	approvals approval.ApprovalRepository,
	workflows workflow.WorkflowService,
	notifier notification.Notifier,
	logger *zap.Logger,
) DeadlineService {
	return &DeadlineServiceImpl{
		approvals: approvals,
		workflows: workflows,
		notifier:  notifier,
		logger:    logger,
		schedule:  cfg.DeadlineScanSchedule,
		now:       time.Now,
	}
}

func (s *DeadlineServiceImpl) Scan(ctx context.Context) (*ScanResult, error) {
	result := &ScanResult{StartedAt: s.now().UTC()}
	err := s.scan(ctx, result)
	result.FinishedAt = s.now().UTC()
	if err != nil {
		result.Error = err.Error()
	}

	s.mu.Lock()
	s.lastScan = result
	s.mu.Unlock()

	return result, err
}

func (s *DeadlineServiceImpl) scan(ctx context.Context, result *ScanResult) error {
	open, err := s.approvals.ListApprovals(ctx, approval.ApprovalFilter{Status: approval.StatusInProgress})
	if err != nil {
		return fmt.Errorf("failed to list open approvals: %w", err)
	}

	ids := make([]string, len(open))
	for i, a := range open {
		ids[i] = a.ID
	}
	rows, err := s.approvals.ListStages(ctx, ids...)
	if err != nil {
		return fmt.Errorf("failed to list stage approvals: %w", err)
	}
	pending := make(map[string]map[string]bool, len(open))
	for _, r := range rows {
		if r.Status != approval.StatusPending {
			continue
		}
		if pending[r.DocumentApprovalID] == nil {
			pending[r.DocumentApprovalID] = make(map[string]bool)
		}
		pending[r.DocumentApprovalID][r.StageID] = true
	}

	workflows := make(map[string]*workflow.ApprovalWorkflow)
	for i := range open {
		a := &open[i]
		result.Checked++

		wf, ok := workflows[a.WorkflowID]
		if !ok {
			wf, err = s.workflows.GetWorkflow(ctx, a.WorkflowID)
			if err != nil {
				s.logger.Warn("Skipping approval with unknown workflow",
					zap.String("document_approval_id", a.ID),
					zap.String("workflow_id", a.WorkflowID),
					zap.Error(err),
				)
				continue
			}
			workflows[a.WorkflowID] = wf
		}

		// The marker is the group's current stage id, so a group is flagged once
		if a.OverdueStageID == a.CurrentStageID {
			continue
		}
		stage, deadline, ok := earliestDeadline(wf, a, pending[a.ID])
		if !ok || !result.StartedAt.After(deadline) {
			continue
		}

		expected := a.Version
		a.OverdueStageID = a.CurrentStageID
		a.UpdatedAt = result.StartedAt
		if err := s.approvals.UpdateApproval(ctx, a, expected); err != nil {
			if errors.Is(err, approval.ErrVersionConflict) {
				// Moved on in the meantime; the next pass sees the fresh state
				continue
			}
			return fmt.Errorf("failed to flag %s as overdue: %w", a.ID, err)
		}

		result.Flagged++
		s.logger.Info("Approval stage overdue",
			zap.String("document_approval_id", a.ID),
			zap.String("stage", stage.Name),
			zap.Time("deadline", deadline),
		)
		if err := s.notifier.Notify(ctx, notification.NewEvent(notification.EventOverdue, a.ID, stage.ID)); err != nil {
			s.logger.Debug("Overdue notice not fully delivered", zap.String("document_approval_id", a.ID))
		}
	}
	return nil
}

// earliestDeadline looks at every stage of the current order that still has a
// pending row and returns the one due first.
func earliestDeadline(wf *workflow.ApprovalWorkflow, a *approval.DocumentApproval, pending map[string]bool) (workflow.WorkflowStage, time.Time, bool) {
	current, ok := wf.Stage(a.CurrentStageID)
	if !ok {
		return workflow.WorkflowStage{}, time.Time{}, false
	}

	var (
		due   workflow.WorkflowStage
		first time.Time
		found bool
	)
	for _, st := range wf.StagesAt(current.Order) {
		if !pending[st.ID] {
			continue
		}
		deadline, ok := st.Deadline(a.StageStartedAt)
		if !ok {
			continue
		}
		if !found || deadline.Before(first) {
			due, first, found = st, deadline, true
		}
	}
	return due, first, found
}

func (s *DeadlineServiceImpl) InitializeScheduler(ctx context.Context) error {
	if s.schedule == "" {
		s.logger.Info("Deadline scan disabled")
		return nil
	}

	clog := cronLogger{s.logger.Sugar()}
	s.scheduler = cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)

	entryID, err := s.scheduler.AddFunc(s.schedule, func() {
		if _, err := s.Scan(context.Background()); err != nil {
			s.logger.Error("Deadline scan failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid deadline scan schedule %q: %w", s.schedule, err)
	}
	s.entryID = entryID

	s.logger.Info("Starting deadline scheduler", zap.String("schedule", s.schedule))
	s.scheduler.Start()
	return nil
}

func (s *DeadlineServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

func (s *DeadlineServiceImpl) Status() SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := SchedulerStatus{Schedule: s.schedule, LastScan: s.lastScan}
	if s.scheduler != nil {
		status.Running = true
		if next := s.scheduler.Entry(s.entryID).Next; !next.IsZero() {
			status.NextRun = &next
		}
	}
	return status
}

// cronLogger routes robfig/cron's key/value logging into zap
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
