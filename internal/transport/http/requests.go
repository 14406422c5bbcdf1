package http

type borrowRequest struct {
	MemberID int64 `json:"member_id" validate:"omitempty,gt=0"`
	CopyID   int64 `json:"copy_id" validate:"required,gt=0"`
}

type reserveRequest struct {
	MemberID int64 `json:"member_id" validate:"omitempty,gt=0"`
	CopyID   int64 `json:"copy_id" validate:"required,gt=0"`
}

type rejectReturnRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type payRequest struct {
	Amount      string  `json:"amount" validate:"required,money"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

type createBookRequest struct {
	ISBN        string  `json:"isbn" validate:"required,isbn"`
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Author      string  `json:"author" validate:"required,min=1,max=255"`
	Category    string  `json:"category" validate:"required,min=1,max=100"`
	Year        *int    `json:"year" validate:"omitempty,gte=1000,lte=9999"`
	PageCount   *int    `json:"page_count" validate:"omitempty,gt=0"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type addCopyRequest struct {
	ShelfLocation *string `json:"shelf_location" validate:"omitempty,min=1,max=50"`
}

type setCopyStatusRequest struct {
	Status string `json:"status" validate:"required,copy_status"`
}

type registerMemberRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	FullName string  `json:"full_name" validate:"required,min=2,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,e164"`
	Status   string  `json:"status" validate:"omitempty,oneof=Active Passive"`
}
