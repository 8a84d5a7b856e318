package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/clock"
)

// PortfolioSummarizer is the read side of loan.Repository the job depends on.
type PortfolioSummarizer interface {
	PortfolioSummary(ctx context.Context) (loan.PortfolioSummary, error)
}

// PortfolioSnapshotJob publishes book-wide loan totals as Prometheus gauges.
type PortfolioSnapshotJob struct {
	repo   PortfolioSummarizer
	clock  clock.Clock
	logger *slog.Logger
}

func NewPortfolioSnapshotJob(repo PortfolioSummarizer, c clock.Clock, logger *slog.Logger) *PortfolioSnapshotJob {
	if repo == nil || logger == nil {
		panic("PortfolioSnapshotJob dependencies cannot be nil")
	}
	if c == nil {
		c = clock.System{}
	}
	return &PortfolioSnapshotJob{
		repo:   repo,
		clock:  c,
		logger: logger.With("job", "PortfolioSnapshot"),
	}
}

func (j *PortfolioSnapshotJob) Run(ctx context.Context) (loan.PortfolioSummary, error) {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting portfolio snapshot job.")

	summary, err := j.repo.PortfolioSummary(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to summarize portfolio, aborting job.", slog.Any("error", err))
		return loan.PortfolioSummary{}, fmt.Errorf("cannot run job, failed to summarize portfolio: %w", err)
	}

	principal, _ := summary.PrincipalAmount.Float64()
	commission, _ := summary.CommissionAmount.Float64()
	total, _ := summary.TotalAmount.Float64()
	monitoring.RecordPortfolioSnapshot(monitoring.PortfolioSnapshot{
		Loans:              summary.Loans,
		PrincipalAmount:    principal,
		CommissionAmount:   commission,
		TotalAmount:        total,
		CustomersWithLoans: summary.CustomersWithLoans,
		TakenAt:            j.clock.Now(),
	})

	j.logger.InfoContext(ctx, "Portfolio snapshot job finished.",
		slog.Int64("loans", summary.Loans),
		slog.Int64("customers_with_loans", summary.CustomersWithLoans),
		slog.String("principal", summary.PrincipalAmount.StringFixed(2)),
		slog.Duration("duration", time.Since(startTime)),
	)
	return summary, nil
}
