package domain

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Caller identifies who invokes an operation. It is resolved per request and
// passed explicitly to every operation that gates on identity.
type Caller struct {
	UserID   string
	Role     Role
	MemberID int64
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// ActsFor reports whether the caller may act on behalf of memberID.
func (c Caller) ActsFor(memberID int64) bool {
	return c.IsAdmin() || (c.Role == RoleMember && c.MemberID == memberID)
}
