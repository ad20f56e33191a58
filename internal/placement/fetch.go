package placement

import (
	"context"
	"fmt"
	"strconv"

	"github.com/placedesk/placedesk/internal/logging"
	"github.com/placedesk/placedesk/internal/strapi"
)

// JSONGetter decodes a GET response. *strapi.Client implements it.
type JSONGetter interface {
	GetJSON(ctx context.Context, path string, query *strapi.Query, out any) error
}

// Fetcher loads rows from the content API. Every call is a full fetch.
type Fetcher struct {
	client JSONGetter
}

// NewFetcher builds a Fetcher.
func NewFetcher(client JSONGetter) *Fetcher {
	return &Fetcher{client: client}
}

// ApplicationsQuery is the query for every application to a job, with the
// student, program, course and company relations populated.
func ApplicationsQuery(jobID int) *strapi.Query {
	return strapi.NewQuery().
		Populate("student.course", "job.company", "student.program").
		FilterEq(strconv.Itoa(jobID), "job", "id")
}

// PendingStudentsQuery is the query for registrations awaiting approval.
func PendingStudentsQuery() *strapi.Query {
	return strapi.NewQuery().
		FilterEq(ApprovalPending, "approved").
		PopulateAll()
}

// Applications returns every application for the job.
func (f *Fetcher) Applications(ctx context.Context, jobID int) ([]ApplicationRecord, error) {
	var resp strapi.ListResponse[ApplicationAttributes]
	if err := f.client.GetJSON(ctx, "/api/applications", ApplicationsQuery(jobID), &resp); err != nil {
		return nil, fmt.Errorf("fetching applications for job %d: %w", jobID, err)
	}

	rows := make([]ApplicationRecord, len(resp.Data))
	for i, e := range resp.Data {
		rows[i] = NewApplicationRecord(e.ID, e.Attributes)
	}

	logging.FromContext(ctx).Debug().Ctx(ctx).
		Str("component", "placement").
		Str("operation", "fetch_applications").
		Int("job_id", jobID).
		Int("rows", len(rows)).
		Msg("applications loaded")
	return rows, nil
}

// PendingStudents returns every registration whose approval is pending.
func (f *Fetcher) PendingStudents(ctx context.Context) ([]StudentRecord, error) {
	var resp strapi.ListResponse[StudentAttributes]
	if err := f.client.GetJSON(ctx, "/api/students", PendingStudentsQuery(), &resp); err != nil {
		return nil, fmt.Errorf("fetching pending students: %w", err)
	}

	rows := make([]StudentRecord, len(resp.Data))
	for i, e := range resp.Data {
		rows[i] = NewStudentRecord(e.ID, e.Attributes)
	}

	logging.FromContext(ctx).Debug().Ctx(ctx).
		Str("component", "placement").
		Str("operation", "fetch_students").
		Int("rows", len(rows)).
		Msg("pending students loaded")
	return rows, nil
}
