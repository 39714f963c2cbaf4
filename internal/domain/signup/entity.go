package signup

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusContacted Status = "CONTACTED"
)

var Statuses = []string{
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
	string(StatusContacted),
}

// Request is an application from a prospective care worker
type Request struct {
	ID                  string
	Name                string
	Email               string
	Phone               string
	Experience          string
	PreferredDepartment *string
	Message             *string
	Status              Status
	ReviewNotes         *string
	ReviewedBy          *string
	ReviewedAt          *time.Time
	SubmittedAt         time.Time
	UpdatedAt           time.Time
}
