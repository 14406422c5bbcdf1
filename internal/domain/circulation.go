package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Loan struct {
	ID         int64      `db:"id" json:"id"`
	CopyID     int64      `db:"copy_id" json:"copy_id"`
	MemberID   int64      `db:"member_id" json:"member_id"`
	LoanedAt   time.Time  `db:"loaned_at" json:"loaned_at"`
	DueAt      time.Time  `db:"due_at" json:"due_at"`
	ReturnedAt *time.Time `db:"returned_at" json:"returned_at,omitempty"`
}

func (l *Loan) IsOpen() bool {
	return l.ReturnedAt == nil
}

// IsOverdue reports whether the loan is still open past its due date at asOf.
func (l *Loan) IsOverdue(asOf time.Time) bool {
	return l.IsOpen() && asOf.After(l.DueAt)
}

// DaysLate returns the number of whole days between DueAt and at, or 0 when
// at is not past the due date.
func (l *Loan) DaysLate(at time.Time) int {
	if !at.After(l.DueAt) {
		return 0
	}

	return int(at.Sub(l.DueAt) / (24 * time.Hour))
}

type Reservation struct {
	ID         int64     `db:"id" json:"id"`
	MemberID   int64     `db:"member_id" json:"member_id"`
	CopyID     int64     `db:"copy_id" json:"copy_id"`
	ReservedAt time.Time `db:"reserved_at" json:"reserved_at"`
	Notified   bool      `db:"notified" json:"notified"`
}

type ReturnRequestStatus string

const (
	ReturnRequestPending  ReturnRequestStatus = "Pending"
	ReturnRequestApproved ReturnRequestStatus = "Approved"
	ReturnRequestRejected ReturnRequestStatus = "Rejected"
)

type ReturnRequest struct {
	ID                int64               `db:"id" json:"id"`
	LoanID            int64               `db:"loan_id" json:"loan_id"`
	RequestedAt       time.Time           `db:"requested_at" json:"requested_at"`
	Status            ReturnRequestStatus `db:"status" json:"status"`
	ProcessedAt       *time.Time          `db:"processed_at" json:"processed_at,omitempty"`
	ProcessedByUserID *string             `db:"processed_by_user_id" json:"processed_by_user_id,omitempty"`
	RejectionReason   *string             `db:"rejection_reason" json:"rejection_reason,omitempty"`
}

type Payment struct {
	ID          int64           `db:"id" json:"id"`
	LoanID      int64           `db:"loan_id" json:"loan_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	PaymentDate time.Time       `db:"payment_date" json:"payment_date"`
	Description *string         `db:"description" json:"description,omitempty"`
}

type PenaltySummary struct {
	LoanID       int64           `json:"loan_id"`
	DelayDays    int             `json:"delay_days"`
	DailyRate    decimal.Decimal `json:"daily_rate"`
	TotalPenalty decimal.Decimal `json:"total_penalty"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	Remaining    decimal.Decimal `json:"remaining"`
}

type ReturnResult struct {
	Loan                Loan         `json:"loan"`
	IsOverdue           bool         `json:"is_overdue"`
	DaysLate            int          `json:"days_late"`
	NotifiedReservation *Reservation `json:"notified_reservation,omitempty"`
}

type ApproveResult struct {
	Request ReturnRequest `json:"return_request"`
	Return  ReturnResult  `json:"return"`
}

type AuditAction string

const (
	AuditBorrow AuditAction = "BORROW"
	AuditReturn AuditAction = "RETURN"
)

type AuditEntry struct {
	ID         int64       `db:"id" json:"id"`
	LoanID     int64       `db:"loan_id" json:"loan_id"`
	Action     AuditAction `db:"action" json:"action"`
	ActionTime time.Time   `db:"action_time" json:"action_time"`
}

type OverdueLoan struct {
	Loan    Loan           `json:"loan"`
	Penalty PenaltySummary `json:"penalty"`
}
