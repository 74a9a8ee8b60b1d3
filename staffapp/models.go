package staffapp

import "time"

type State string

const (
	StatePending  State = "PENDING"
	StateApproved State = "APPROVED"
	StateRejected State = "REJECTED"
)

// Application is one staff application with its graded test result.
type Application struct {
	ID              string     `json:"id"`
	ApplicantID     string     `json:"applicantId"`
	ApplicantName   string     `json:"applicantName"`
	ApplicantEmail  string     `json:"applicantEmail"`
	State           State      `json:"status"`
	Answers         []int      `json:"answers,omitempty"`
	Score           int        `json:"testScore"`
	TotalQuestions  int        `json:"totalQuestions"`
	ScorePercent    float64    `json:"scorePercentage"`
	Passing         bool       `json:"isPassing"`
	SubmittedAt     time.Time  `json:"submittedAt"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	ReviewedByName  *string    `json:"reviewedByName,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
}

// StaffMember is the directory entry exposed for assignment pickers. ID is
// the email so an admin can assign complaints without leaking internal ids.
type StaffMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
