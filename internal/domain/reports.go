package domain

import "time"

type DashboardStats struct {
	TotalBooks      int `db:"total_books" json:"total_books"`
	TotalMembers    int `db:"total_members" json:"total_members"`
	ActiveLoans     int `db:"active_loans" json:"active_loans"`
	OverdueLoans    int `db:"overdue_loans" json:"overdue_loans"`
	AvailableCopies int `db:"available_copies" json:"available_copies"`
	PendingReturns  int `db:"pending_returns" json:"pending_returns"`
}

type ActiveLoanRow struct {
	LoanID     int64     `db:"loan_id" json:"loan_id"`
	MemberID   int64     `db:"member_id" json:"member_id"`
	MemberName string    `db:"member_name" json:"member_name"`
	BookTitle  string    `db:"book_title" json:"book_title"`
	CopyID     int64     `db:"copy_id" json:"copy_id"`
	LoanedAt   time.Time `db:"loaned_at" json:"loaned_at"`
	DueAt      time.Time `db:"due_at" json:"due_at"`
	DelayDays  int       `db:"delay_days" json:"delay_days"`
}

type MemberLoanCount struct {
	MemberID  int64  `db:"member_id" json:"member_id"`
	FullName  string `db:"full_name" json:"full_name"`
	LoanCount int    `db:"loan_count" json:"loan_count"`
}

type TopBook struct {
	BookID    int64  `db:"book_id" json:"book_id"`
	Title     string `db:"title" json:"title"`
	Author    string `db:"author" json:"author"`
	LoanCount int    `db:"loan_count" json:"loan_count"`
}

type ReservationQueueRow struct {
	ReservationID int64     `db:"reservation_id" json:"reservation_id"`
	CopyID        int64     `db:"copy_id" json:"copy_id"`
	BookTitle     string    `db:"book_title" json:"book_title"`
	MemberID      int64     `db:"member_id" json:"member_id"`
	MemberName    string    `db:"member_name" json:"member_name"`
	ReservedAt    time.Time `db:"reserved_at" json:"reserved_at"`
	Notified      bool      `db:"notified" json:"notified"`
}
