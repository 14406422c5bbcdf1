package service

import (
	"time"

	"github.com/YusovID/library-service/internal/domain"
	"github.com/shopspring/decimal"
)

// computePenalty charges rate per whole day past DueAt. Remaining never drops
// below zero even if the ledger holds more than the accrued penalty.
func computePenalty(loan *domain.Loan, paid, rate decimal.Decimal, asOf time.Time) domain.PenaltySummary {
	delayDays := loan.DaysLate(asOf)
	total := rate.Mul(decimal.NewFromInt(int64(delayDays))).Round(2)

	remaining := total.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return domain.PenaltySummary{
		LoanID:       loan.ID,
		DelayDays:    delayDays,
		DailyRate:    rate,
		TotalPenalty: total,
		PaidAmount:   paid,
		Remaining:    remaining,
	}
}
