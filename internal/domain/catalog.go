package domain

import "time"

type CopyStatus string

const (
	CopyAvailable   CopyStatus = "Available"
	CopyLoaned      CopyStatus = "Loaned"
	CopyReserved    CopyStatus = "Reserved"
	CopyMaintenance CopyStatus = "Maintenance"
	CopyDamaged     CopyStatus = "Damaged"
)

func (s CopyStatus) Valid() bool {
	switch s {
	case CopyAvailable, CopyLoaned, CopyReserved, CopyMaintenance, CopyDamaged:
		return true
	}

	return false
}

type Book struct {
	ID          int64     `db:"id" json:"id"`
	ISBN        string    `db:"isbn" json:"isbn"`
	Title       string    `db:"title" json:"title"`
	Author      string    `db:"author" json:"author"`
	Category    string    `db:"category" json:"category"`
	Year        *int      `db:"year" json:"year,omitempty"`
	PageCount   *int      `db:"page_count" json:"page_count,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Copy struct {
	ID            int64      `db:"id" json:"id"`
	BookID        int64      `db:"book_id" json:"book_id"`
	CopyNumber    int        `db:"copy_number" json:"copy_number"`
	Status        CopyStatus `db:"status" json:"status"`
	ShelfLocation *string    `db:"shelf_location" json:"shelf_location,omitempty"`
	AddedAt       time.Time  `db:"added_at" json:"added_at"`
}

type MemberStatus string

const (
	MemberActive  MemberStatus = "Active"
	MemberPassive MemberStatus = "Passive"
)

type Member struct {
	ID       int64        `db:"id" json:"id"`
	Email    string       `db:"email" json:"email"`
	FullName string       `db:"full_name" json:"full_name"`
	Phone    *string      `db:"phone" json:"phone,omitempty"`
	JoinedAt time.Time    `db:"joined_at" json:"joined_at"`
	Status   MemberStatus `db:"status" json:"status"`
}
