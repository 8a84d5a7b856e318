package loan

import (
	"fmt"
	"time"

	"credit-engine/internal/pkg/apperrors"
	"credit-engine/internal/pkg/clock"

	"github.com/shopspring/decimal"
)

const (
	DefaultInstallmentCount = 5
	DefaultIntervalDays     = 15
	amountScale             = 2
)

type InstallmentPlan struct {
	Count        int
	IntervalDays int
}

func DefaultInstallmentPlan() InstallmentPlan {
	return InstallmentPlan{Count: DefaultInstallmentCount, IntervalDays: DefaultIntervalDays}
}

func (p InstallmentPlan) Validate() error {
	if p.Count <= 0 {
		return fmt.Errorf("%w: installment count must be positive, got %d", apperrors.ErrInvalidArgument, p.Count)
	}
	if p.IntervalDays <= 0 {
		return fmt.Errorf("%w: installment interval must be positive, got %d days", apperrors.ErrInvalidArgument, p.IntervalDays)
	}
	return nil
}

func (p InstallmentPlan) Schedule(total decimal.Decimal, startDate time.Time) ([]Installment, error) {
	return GenerateSchedule(total, p.Count, p.IntervalDays, startDate)
}

// GenerateSchedule splits total into count equal installments rounded half-up to
// cents. The rounding remainder is not redistributed, so the schedule can sum to
// slightly less or more than total (at most count cents apart).
func GenerateSchedule(total decimal.Decimal, count, intervalDays int, startDate time.Time) ([]Installment, error) {
	if err := (InstallmentPlan{Count: count, IntervalDays: intervalDays}).Validate(); err != nil {
		return nil, err
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: schedule total must be positive, got %s", apperrors.ErrInvalidArgument, total)
	}

	amount := total.DivRound(decimal.NewFromInt(int64(count)), amountScale)
	start := clock.Date(startDate)

	installments := make([]Installment, 0, count)
	for k := 1; k <= count; k++ {
		installments = append(installments, Installment{
			Number:               k,
			Amount:               amount,
			ScheduledPaymentDate: start.AddDate(0, 0, intervalDays*k),
			Status:               InstallmentStatusPending,
		})
	}
	return installments, nil
}
