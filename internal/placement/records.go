// Package placement implements the placement-office workflows: loading job
// applicants and pending registrations, applying status changes to a selection
// of rows, exporting what is on screen and downloading resume archives.
package placement

import (
	"strings"

	"github.com/placedesk/placedesk/internal/strapi"
)

// Application statuses.
const (
	StatusApplied  = "applied"
	StatusSelected = "selected"
	StatusRejected = "rejected"
)

// Registration approval states.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// ProgramAttributes is the program relation.
type ProgramAttributes struct {
	ProgramName string `json:"program_name"`
}

// CourseAttributes is the course relation.
type CourseAttributes struct {
	CourseName string `json:"course_name"`
}

// CompanyAttributes is the company relation of a job.
type CompanyAttributes struct {
	CompanyName string `json:"company_name"`
}

// StudentAttributes are the fields of a student entity.
type StudentAttributes struct {
	Name             string                             `json:"name"`
	Roll             string                             `json:"roll"`
	InstituteEmailID string                             `json:"institute_email_id"`
	PersonalEmailID  string                             `json:"personal_email_id"`
	MobileNumber1    strapi.FlexString                  `json:"mobile_number_1"`
	MobileNumber2    strapi.FlexString                  `json:"mobile_number_2"`
	Category         string                             `json:"category"`
	Gender           string                             `json:"gender"`
	XMarks           strapi.FlexString                  `json:"X_marks"`
	XIIMarks         strapi.FlexString                  `json:"XII_marks"`
	CPI              strapi.FlexString                  `json:"cpi"`
	ResumeLink       string                             `json:"resume_link"`
	RegisteredFor    string                             `json:"registered_for"`
	Approved         string                             `json:"approved"`
	Program          strapi.Relation[ProgramAttributes] `json:"program"`
	Course           strapi.Relation[CourseAttributes]  `json:"course"`
}

// JobAttributes are the fields of a job entity.
type JobAttributes struct {
	JobTitle       string                             `json:"job_title"`
	Classification string                             `json:"classification"`
	Company        strapi.Relation[CompanyAttributes] `json:"company"`
}

// ApplicationAttributes are the fields of an application entity.
type ApplicationAttributes struct {
	Status  string                             `json:"status"`
	Student strapi.Relation[StudentAttributes] `json:"student"`
	Job     strapi.Relation[JobAttributes]     `json:"job"`
}

// ApplicationRecord is one applicant row for a job.
type ApplicationRecord struct {
	ID    int
	attrs ApplicationAttributes
}

// NewApplicationRecord wraps decoded attributes.
func NewApplicationRecord(id int, attrs ApplicationAttributes) ApplicationRecord {
	return ApplicationRecord{ID: id, attrs: attrs}
}

// RowID implements grid.Row.
func (r ApplicationRecord) RowID() int { return r.ID }

// Subject is the name used in confirmations and notifications.
func (r ApplicationRecord) Subject() string { return r.StudentName() }

// Status is the application status as sent by the server.
func (r ApplicationRecord) Status() string { return r.attrs.Status }

func (r ApplicationRecord) student() StudentAttributes { return r.attrs.Student.Get() }
func (r ApplicationRecord) job() JobAttributes         { return r.attrs.Job.Get() }

// StudentID is the ID of the related student, or 0 when unpopulated.
func (r ApplicationRecord) StudentID() int {
	if r.attrs.Student.Data == nil {
		return 0
	}
	return r.attrs.Student.Data.ID
}

func (r ApplicationRecord) StudentName() string    { return r.student().Name }
func (r ApplicationRecord) Roll() string           { return r.student().Roll }
func (r ApplicationRecord) InstituteEmail() string { return r.student().InstituteEmailID }
func (r ApplicationRecord) PersonalEmail() string  { return r.student().PersonalEmailID }
func (r ApplicationRecord) Mobile() string         { return r.student().MobileNumber1.String() }
func (r ApplicationRecord) AltMobile() string      { return r.student().MobileNumber2.String() }
func (r ApplicationRecord) ProgramName() string    { return r.student().Program.Get().ProgramName }
func (r ApplicationRecord) CourseName() string     { return r.student().Course.Get().CourseName }
func (r ApplicationRecord) Category() string       { return r.student().Category }
func (r ApplicationRecord) Gender() string         { return r.student().Gender }
func (r ApplicationRecord) XMarks() string         { return r.student().XMarks.String() }
func (r ApplicationRecord) XIIMarks() string       { return r.student().XIIMarks.String() }
func (r ApplicationRecord) CPI() string            { return r.student().CPI.String() }
func (r ApplicationRecord) ResumeLink() string     { return r.student().ResumeLink }
func (r ApplicationRecord) Classification() string { return r.job().Classification }
func (r ApplicationRecord) JobTitle() string       { return r.job().JobTitle }
func (r ApplicationRecord) CompanyName() string    { return r.job().Company.Get().CompanyName }

// StudentRecord is one student registration row.
type StudentRecord struct {
	ID    int
	attrs StudentAttributes
}

// NewStudentRecord wraps decoded attributes.
func NewStudentRecord(id int, attrs StudentAttributes) StudentRecord {
	return StudentRecord{ID: id, attrs: attrs}
}

// RowID implements grid.Row.
func (r StudentRecord) RowID() int { return r.ID }

// Subject is the name used in confirmations and notifications.
func (r StudentRecord) Subject() string { return r.attrs.Name }

func (r StudentRecord) Name() string           { return r.attrs.Name }
func (r StudentRecord) Roll() string           { return r.attrs.Roll }
func (r StudentRecord) InstituteEmail() string { return r.attrs.InstituteEmailID }
func (r StudentRecord) PersonalEmail() string  { return r.attrs.PersonalEmailID }
func (r StudentRecord) Mobile() string         { return r.attrs.MobileNumber1.String() }
func (r StudentRecord) ProgramName() string    { return r.attrs.Program.Get().ProgramName }
func (r StudentRecord) CourseName() string     { return r.attrs.Course.Get().CourseName }
func (r StudentRecord) RegisteredFor() string  { return r.attrs.RegisteredFor }
func (r StudentRecord) Approved() string       { return r.attrs.Approved }
func (r StudentRecord) CPI() string            { return r.attrs.CPI.String() }
func (r StudentRecord) ResumeLink() string     { return r.attrs.ResumeLink }

// Subjecter is a row that can be named in messages.
type Subjecter interface {
	RowID() int
	Subject() string
}

// Targets converts rows into dispatch targets.
func Targets[T Subjecter](rows []T) []Target {
	out := make([]Target, len(rows))
	for i, r := range rows {
		out[i] = Target{ID: r.RowID(), Subject: r.Subject()}
	}
	return out
}

// RollsOf joins the roll numbers of rows with commas, skipping blanks.
func RollsOf[T interface{ Roll() string }](rows []T) string {
	rolls := make([]string, 0, len(rows))
	for _, r := range rows {
		if roll := strings.TrimSpace(r.Roll()); roll != "" {
			rolls = append(rolls, roll)
		}
	}
	return strings.Join(rolls, ",")
}
