package placement

import (
	"strconv"

	"github.com/placedesk/placedesk/internal/grid"
)

// ApplicationColumns are the applicant grid columns in display order.
func ApplicationColumns() []grid.Column[ApplicationRecord] {
	return []grid.Column[ApplicationRecord]{
		{Key: "status", Title: "Status", Width: 10, Value: ApplicationRecord.Status},
		{Key: "name", Title: "Student Name", Width: 22, Value: ApplicationRecord.StudentName},
		{Key: "roll", Title: "Roll", Width: 10, Value: ApplicationRecord.Roll},
		{Key: "institute_email", Title: "Institute Email", Width: 26, Value: ApplicationRecord.InstituteEmail},
		{Key: "personal_email", Title: "Personal Email", Width: 26, Value: ApplicationRecord.PersonalEmail},
		{Key: "mobile", Title: "Mobile Number", Width: 13, Value: ApplicationRecord.Mobile},
		{Key: "alt_mobile", Title: "Alternate Mobile Number", Width: 13, Value: ApplicationRecord.AltMobile},
		{Key: "program", Title: "Program", Width: 10, Value: ApplicationRecord.ProgramName},
		{Key: "course", Title: "Course", Width: 16, Value: ApplicationRecord.CourseName},
		{Key: "category", Title: "Category", Width: 9, Value: ApplicationRecord.Category},
		{Key: "gender", Title: "Gender", Width: 7, Value: ApplicationRecord.Gender},
		{Key: "x_marks", Title: "Xth Marks", Width: 9, Value: ApplicationRecord.XMarks, Numeric: true},
		{Key: "xii_marks", Title: "XIIth Marks", Width: 11, Value: ApplicationRecord.XIIMarks, Numeric: true},
		{Key: "cpi", Title: "CPI", Width: 6, Value: ApplicationRecord.CPI, Numeric: true},
		{Key: "classification", Title: "Classification", Width: 14, Value: ApplicationRecord.Classification},
		{Key: "resume", Title: "Resume Link", Width: 30, Value: ApplicationRecord.ResumeLink},
	}
}

// StudentColumns are the registration request grid columns in display order.
func StudentColumns() []grid.Column[StudentRecord] {
	return []grid.Column[StudentRecord]{
		{Key: "name", Title: "Student Name", Width: 22, Value: StudentRecord.Name},
		{Key: "roll", Title: "Roll No.", Width: 10, Value: StudentRecord.Roll},
		{Key: "program", Title: "Program", Width: 10, Value: StudentRecord.ProgramName},
		{Key: "course", Title: "Course", Width: 16, Value: StudentRecord.CourseName},
		{Key: "registered_for", Title: "Registered For", Width: 14, Value: StudentRecord.RegisteredFor},
		{Key: "approved", Title: "Approval", Width: 9, Value: StudentRecord.Approved},
	}
}

// ApplicationDetails are the extra applicant fields shown in the detail panel.
func ApplicationDetails() []grid.Column[ApplicationRecord] {
	return []grid.Column[ApplicationRecord]{
		{Key: "student_id", Title: "Student ID", Value: func(r ApplicationRecord) string {
			if id := r.StudentID(); id != 0 {
				return strconv.Itoa(id)
			}
			return ""
		}},
		{Key: "job_title", Title: "Job Title", Value: ApplicationRecord.JobTitle},
		{Key: "company", Title: "Company", Value: ApplicationRecord.CompanyName},
	}
}

// StudentDetails are the contact fields, CPI and resume link shown in the
// registration detail panel.
func StudentDetails() []grid.Column[StudentRecord] {
	return []grid.Column[StudentRecord]{
		{Key: "institute_email", Title: "Institute Email", Value: StudentRecord.InstituteEmail},
		{Key: "personal_email", Title: "Personal Email", Value: StudentRecord.PersonalEmail},
		{Key: "mobile", Title: "Mobile Number", Value: StudentRecord.Mobile},
		{Key: "cpi", Title: "CPI", Value: StudentRecord.CPI},
		{Key: "resume", Title: "Resume Link", Value: StudentRecord.ResumeLink},
	}
}
