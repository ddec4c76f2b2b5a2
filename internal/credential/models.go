package credential

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Type discriminates the credential variants. The set is closed: a Record is
// always exactly one of employment or education.
type Type string

const (
	TypeEmployment Type = "employment"
	TypeEducation  Type = "education"
)

// Status is derived from whether an end date is present, never set directly.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Meta holds the generated, type-independent fields stamped at issuance.
// Records are logically immutable after creation: an amendment is a new
// Record with a new ID, so historical anchors stay verifiable against the
// content they committed to.
type Meta struct {
	ID        string
	Type      Type
	Status    Status
	IssueDate string // YYYY-MM-DD, creation time, not user-editable
}

// Record is the closed credential sum type.
type Record interface {
	Meta() Meta
	// StartedAt is the parse of the variant's start date, used only for
	// presentation ordering.
	StartedAt() time.Time

	isRecord()
}

// Employment is an employment credential.
type Employment struct {
	meta Meta

	EmployeeName string
	EmployeeID   string
	Company      string
	Role         string
	StartDate    string
	EndDate      string
	ReferenceID  string
	ProofURL     string
	Notes        string
	Image        string
}

// EmploymentInput carries the user-supplied employment fields.
type EmploymentInput struct {
	EmployeeName string
	EmployeeID   string
	Company      string
	Role         string
	StartDate    string
	EndDate      string
	ReferenceID  string
	ProofURL     string
	Notes        string
	Image        string
}

// NewEmployment stamps a new employment credential. Status derives from the
// end date; the issue date is the creation day.
func NewEmployment(in EmploymentInput, now time.Time) *Employment {
	return &Employment{
		meta: Meta{
			ID:        "EMP-" + uuid.NewString(),
			Type:      TypeEmployment,
			Status:    deriveStatus(in.EndDate),
			IssueDate: now.Format("2006-01-02"),
		},
		EmployeeName: in.EmployeeName,
		EmployeeID:   in.EmployeeID,
		Company:      in.Company,
		Role:         in.Role,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		ReferenceID:  in.ReferenceID,
		ProofURL:     in.ProofURL,
		Notes:        in.Notes,
		Image:        in.Image,
	}
}

func (e *Employment) Meta() Meta { return e.meta }

func (e *Employment) StartedAt() time.Time { return parseDay(e.StartDate) }

func (e *Employment) isRecord() {}

// Education is an education credential.
type Education struct {
	meta Meta

	StudentName string
	StudentID   string
	Institution string
	Degree      string
	Major       string
	StartDate   string
	EndDate     string
	ReferenceID string
	ProofURL    string
	Notes       string
	Image       string
}

// EducationInput carries the user-supplied education fields.
type EducationInput struct {
	StudentName string
	StudentID   string
	Institution string
	Degree      string
	Major       string
	StartDate   string
	EndDate     string
	ReferenceID string
	ProofURL    string
	Notes       string
	Image       string
}

// NewEducation stamps a new education credential.
func NewEducation(in EducationInput, now time.Time) *Education {
	return &Education{
		meta: Meta{
			ID:        "EDU-" + uuid.NewString(),
			Type:      TypeEducation,
			Status:    deriveStatus(in.EndDate),
			IssueDate: now.Format("2006-01-02"),
		},
		StudentName: in.StudentName,
		StudentID:   in.StudentID,
		Institution: in.Institution,
		Degree:      in.Degree,
		Major:       in.Major,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		ReferenceID: in.ReferenceID,
		ProofURL:    in.ProofURL,
		Notes:       in.Notes,
		Image:       in.Image,
	}
}

func (e *Education) Meta() Meta { return e.meta }

func (e *Education) StartedAt() time.Time { return parseDay(e.StartDate) }

func (e *Education) isRecord() {}

func deriveStatus(endDate string) Status {
	if endDate == "" {
		return StatusOpen
	}
	return StatusClosed
}

func parseDay(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SortByStartDate orders records ascending by start date for presentation.
// The underlying ledger storage is append-only and is never reordered; order
// of appearance there does not imply calendar order.
func SortByStartDate(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartedAt().Before(records[j].StartedAt())
	})
}
