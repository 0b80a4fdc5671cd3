package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"easytap/internal/domain/loan"
	"easytap/internal/event"
	"easytap/internal/infrastructure/monitoring"
)

// OverdueScanJob walks active loans whose due date has passed with money
// still owed and publishes a loan.overdue event for each. The scan never
// mutates loan rows; overdue remains a derived condition.
type OverdueScanJob struct {
	loanRepo  loan.Repository
	publisher event.Publisher
	logger    *slog.Logger
}

func NewOverdueScanJob(loanRepo loan.Repository, publisher event.Publisher, logger *slog.Logger) *OverdueScanJob {
	if loanRepo == nil || publisher == nil || logger == nil {
		panic("OverdueScanJob dependencies cannot be nil")
	}
	return &OverdueScanJob{
		loanRepo:  loanRepo,
		publisher: publisher,
		logger:    logger.With("job", "OverdueScan"),
	}
}

func (j *OverdueScanJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting overdue loan scan job.")

	overdue, err := j.loanRepo.ListOverdueActiveLoans(ctx, startTime)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list overdue loans, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list overdue loans: %w", err)
	}

	monitoring.SetOverdueLoansDetected(len(overdue))

	if len(overdue) == 0 {
		j.logger.InfoContext(ctx, "No overdue loans found.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var publishErrors int
	for i := range overdue {
		l := &overdue[i]
		logCtx := j.logger.With(slog.Int64("loanID", l.ID), slog.String("loanRef", l.LoanRef))

		var dueDate time.Time
		if l.DueDate != nil {
			dueDate = *l.DueDate
		}

		if pubErr := j.publisher.PublishLoanOverdue(ctx, event.LoanOverdueEvent{
			LoanID:     l.ID,
			LoanRef:    l.LoanRef,
			UserID:     l.UserID,
			BalanceDue: l.BalanceDue,
			DueDate:    dueDate,
			Timestamp:  time.Now(),
		}); pubErr != nil {
			logCtx.ErrorContext(ctx, "Failed to publish loan overdue event", slog.Any("error", pubErr))
			publishErrors++
			continue
		}
		logCtx.DebugContext(ctx, "Published loan overdue event", slog.Float64("balance_due", l.BalanceDue))
	}

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("overdue_loans_found", len(overdue)),
		slog.Int("publish_errors", publishErrors),
	)
	if publishErrors > 0 {
		summaryLog.WarnContext(ctx, "Overdue loan scan job finished with errors.")
		return fmt.Errorf("job completed with %d errors", publishErrors)
	}
	summaryLog.InfoContext(ctx, "Overdue loan scan job finished successfully.")
	return nil
}
