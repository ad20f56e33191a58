package placement_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placedesk/placedesk/internal/grid"
	"github.com/placedesk/placedesk/internal/logging"
	"github.com/placedesk/placedesk/internal/metrics"
	"github.com/placedesk/placedesk/internal/placement"
	"github.com/placedesk/placedesk/internal/strapi"
)

const applicationsJSON = `{"data":[
  {"id":11,"attributes":{"status":"applied",
    "student":{"data":{"id":101,"attributes":{"name":"Asha","roll":"2001CS01","cpi":9.2,"X_marks":"95",
      "program":{"data":{"id":1,"attributes":{"program_name":"BTech"}}},
      "course":{"data":{"id":2,"attributes":{"course_name":"Computer Science"}}}}}},
    "job":{"data":{"id":42,"attributes":{"job_title":"SDE","classification":"A1",
      "company":{"data":{"id":7,"attributes":{"company_name":"Acme"}}}}}}}},
  {"id":12,"attributes":{"status":"selected",
    "student":{"data":{"id":102,"attributes":{"name":"Ravi","roll":"2001EE07","cpi":"7.8"}}},
    "job":{"data":null}}}
],"meta":{"pagination":{"total":2}}}`

// recordingServer captures every request it receives.
type recordingServer struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request, body []byte)
}

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Body     []byte
}

func newRecordingServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body []byte)) (*recordingServer, *strapi.Client) {
	t.Helper()
	rs := &recordingServer{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rs.mu.Lock()
		rs.requests = append(rs.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, RawQuery: r.URL.RawQuery, Body: body})
		rs.mu.Unlock()
		rs.handler(w, r, body)
	}))
	t.Cleanup(srv.Close)

	client, err := strapi.NewClient(strapi.Config{BaseURL: srv.URL, Token: "tok"})
	require.NoError(t, err)
	return rs, client
}

func (rs *recordingServer) snapshot() []recordedRequest {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]recordedRequest, len(rs.requests))
	copy(out, rs.requests)
	return out
}

func okHandler(w http.ResponseWriter, _ *http.Request, _ []byte) {
	_, _ = io.WriteString(w, `{"data":{}}`)
}

func TestFetcher_Applications(t *testing.T) {
	rs, client := newRecordingServer(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = io.WriteString(w, applicationsJSON)
	})

	rows, err := placement.NewFetcher(client).Applications(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	reqs := rs.snapshot()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/applications", reqs[0].Path)
	assert.Equal(t,
		"populate[0]=student.course&populate[1]=job.company&populate[2]=student.program&filters[job][id][$eq]=42",
		reqs[0].RawQuery)

	asha := rows[0]
	assert.Equal(t, 11, asha.RowID())
	assert.Equal(t, 101, asha.StudentID())
	assert.Equal(t, "applied", asha.Status())
	assert.Equal(t, "Asha", asha.Subject())
	assert.Equal(t, "BTech", asha.ProgramName())
	assert.Equal(t, "Computer Science", asha.CourseName())
	assert.Equal(t, "9.2", asha.CPI())
	assert.Equal(t, "95", asha.XMarks())
	assert.Equal(t, "A1", asha.Classification())
	assert.Equal(t, "Acme", asha.CompanyName())
	assert.Equal(t, "SDE", asha.JobTitle())

	ravi := rows[1]
	assert.Equal(t, "7.8", ravi.CPI())
	assert.Empty(t, ravi.CompanyName(), "empty relation renders blank")
	assert.Empty(t, ravi.ProgramName())

	details := map[string]string{}
	for _, c := range placement.ApplicationDetails() {
		details[c.Key] = c.Value(asha)
	}
	assert.Equal(t, map[string]string{"student_id": "101", "job_title": "SDE", "company": "Acme"}, details)
}

func TestFetcher_PendingStudents(t *testing.T) {
	rs, client := newRecordingServer(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		_, _ = io.WriteString(w, `{"data":[{"id":5,"attributes":{"name":"Kiran","roll":"2101ME11","approved":"pending",
			"registered_for":"Placement","program":{"data":{"id":1,"attributes":{"program_name":"MTech"}}}}}]}`)
	})

	rows, err := placement.NewFetcher(client).PendingStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "filters[approved][$eq]=pending&populate=*", rs.snapshot()[0].RawQuery)
	assert.Equal(t, "Kiran", rows[0].Name())
	assert.Equal(t, "MTech", rows[0].ProgramName())
	assert.Equal(t, "Placement", rows[0].RegisteredFor())
	assert.Equal(t, placement.ApprovalPending, rows[0].Approved())
}

func TestFetcher_Error(t *testing.T) {
	_, client := newRecordingServer(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"status":401,"message":"Missing or invalid credentials"}}`)
	})

	_, err := placement.NewFetcher(client).Applications(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, strapi.ErrUnauthorized)
	assert.Contains(t, err.Error(), "Missing or invalid credentials")
}

func TestDispatch_SendsOnePutPerTarget(t *testing.T) {
	tests := []struct {
		action    placement.Action
		wantPath  string
		wantField string
		wantValue string
	}{
		{placement.Place, "/api/applications/", "status", "selected"},
		{placement.Unplace, "/api/applications/", "status", "applied"},
		{placement.Reject, "/api/applications/", "status", "rejected"},
		{placement.Approve, "/api/students/", "approved", "approved"},
		{placement.Decline, "/api/students/", "approved", "rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.action.Name, func(t *testing.T) {
			rs, client := newRecordingServer(t, okHandler)
			history := placement.NewHistory(nil)
			d, err := placement.NewDispatcher(placement.DispatcherConfig{Client: client, Notifier: history})
			require.NoError(t, err)

			targets := []placement.Target{{ID: 1, Subject: "Asha"}, {ID: 2, Subject: "Ravi"}, {ID: 3, Subject: "Meera"}}
			report, err := d.Dispatch(context.Background(), tt.action, targets)
			require.NoError(t, err)
			assert.Equal(t, 3, report.Succeeded)
			assert.False(t, report.HasFailures())

			reqs := rs.snapshot()
			require.Len(t, reqs, 3)
			var paths []string
			for _, r := range reqs {
				assert.Equal(t, http.MethodPut, r.Method)
				paths = append(paths, r.Path)

				var body map[string]map[string]string
				require.NoError(t, json.Unmarshal(r.Body, &body))
				assert.Equal(t, map[string]string{tt.wantField: tt.wantValue}, body["data"])
			}
			sort.Strings(paths)
			assert.Equal(t, []string{tt.wantPath + "1", tt.wantPath + "2", tt.wantPath + "3"}, paths)
			assert.Equal(t, 3, history.Len())
		})
	}
}

func TestDispatch_EmptySelectionSendsNothing(t *testing.T) {
	for _, answer := range []bool{true, false} {
		rs, client := newRecordingServer(t, okHandler)
		var asked, refetched int32
		d, err := placement.NewDispatcher(placement.DispatcherConfig{
			Client: client,
			Confirmer: placement.ConfirmerFunc(func(context.Context, string) (bool, error) {
				atomic.AddInt32(&asked, 1)
				return answer, nil
			}),
			Refetch: func(context.Context) error {
				atomic.AddInt32(&refetched, 1)
				return nil
			},
		})
		require.NoError(t, err)

		_, err = d.Dispatch(context.Background(), placement.Place, nil)
		require.ErrorIs(t, err, placement.ErrNoSelection)
		assert.Empty(t, rs.snapshot())
		assert.Zero(t, asked)
		assert.Zero(t, refetched)
	}
}

func TestDispatch_ConfirmationNamesStudentsAndDeclineSendsNothing(t *testing.T) {
	rs, client := newRecordingServer(t, okHandler)
	var message string
	d, err := placement.NewDispatcher(placement.DispatcherConfig{
		Client: client,
		Confirmer: placement.ConfirmerFunc(func(_ context.Context, msg string) (bool, error) {
			message = msg
			return false, nil
		}),
	})
	require.NoError(t, err)

	report, err := d.Dispatch(context.Background(), placement.Place,
		[]placement.Target{{ID: 1, Subject: "Asha"}, {ID: 2, Subject: "Ravi"}})
	require.ErrorIs(t, err, placement.ErrDeclined)
	assert.True(t, report.Declined)
	assert.Equal(t, "Are you sure you want to place these students? Asha, Ravi", message)
	assert.Empty(t, rs.snapshot())
}

func TestDispatch_FailedRowDoesNotAbortOthers(t *testing.T) {
	_, client := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request, _ []byte) {
		if strings.HasSuffix(r.URL.Path, "/2") {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":{"status":500,"message":"Internal Server Error"}}`)
			return
		}
		okHandler(w, r, nil)
	})

	auditPath := filepath.Join(t.TempDir(), "audit.log")
	audit := logging.NewAuditLogger(logging.AuditLoggerConfig{Enabled: true, File: auditPath})
	ctx := logging.ContextWithAuditLogger(context.Background(), audit)

	history := placement.NewHistory(nil)
	m := metrics.New()
	var refetched int32
	d, err := placement.NewDispatcher(placement.DispatcherConfig{
		Client:      client,
		Notifier:    history,
		Concurrency: 2,
		Metrics:     m,
		Refetch: func(context.Context) error {
			// Every PUT has settled by the time the refetch runs.
			assert.Equal(t, 4, history.Len())
			atomic.AddInt32(&refetched, 1)
			return nil
		},
	})
	require.NoError(t, err)

	targets := []placement.Target{{ID: 1, Subject: "Asha"}, {ID: 2, Subject: "Ravi"}, {ID: 3, Subject: "Meera"}, {ID: 4, Subject: "Arjun"}}
	report, err := d.Dispatch(ctx, placement.Place, targets)
	require.NoError(t, err)
	require.NoError(t, audit.Close())

	assert.Equal(t, int32(1), refetched)
	assert.Equal(t, 3, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.True(t, report.HasFailures())
	require.Error(t, report.Outcomes[1].Err)
	assert.Equal(t, "Ravi", report.Outcomes[1].Subject)

	var messages []string
	for _, n := range history.Items() {
		messages = append(messages, n.Level+": "+n.Message)
	}
	assert.ElementsMatch(t, []string{
		"success: Asha marked as placed",
		"error: Ravi failed to place",
		"success: Meera marked as placed",
		"success: Arjun marked as placed",
	}, messages)

	data, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, string(data), `"outcome":"failure"`)
}

func TestDispatch_TransportFailureIsPerRow(t *testing.T) {
	_, client := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request, _ []byte) {
		if strings.HasSuffix(r.URL.Path, "/2") {
			// Drop the connection without a response.
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					_ = conn.Close()
				}
			}
			return
		}
		okHandler(w, r, nil)
	})

	history := placement.NewHistory(nil)
	d, err := placement.NewDispatcher(placement.DispatcherConfig{Client: client, Notifier: history})
	require.NoError(t, err)

	targets := []placement.Target{{ID: 1, Subject: "Asha"}, {ID: 2, Subject: "Ravi"}, {ID: 3, Subject: "Meera"}}
	report, err := d.Dispatch(context.Background(), placement.Reject, targets)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	var apiErr *strapi.APIError
	require.Error(t, report.Outcomes[1].Err)
	assert.False(t, errors.As(report.Outcomes[1].Err, &apiErr), "no HTTP response was received")

	assert.ElementsMatch(t, []string{
		"success: Asha marked as rejected",
		"error: Ravi failed to reject",
		"success: Meera marked as rejected",
	}, notificationLines(history))
}

// cancellingMutator cancels the dispatch context on its first call.
type cancellingMutator struct {
	cancel context.CancelFunc
	calls  atomic.Int32
}

func (c *cancellingMutator) PutData(context.Context, string, any) error {
	c.calls.Add(1)
	c.cancel()
	return nil
}

func TestDispatch_CancelledRowsAreRecorded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auditPath := filepath.Join(t.TempDir(), "audit.log")
	audit := logging.NewAuditLogger(logging.AuditLoggerConfig{Enabled: true, File: auditPath})
	ctx = logging.ContextWithAuditLogger(ctx, audit)

	mutator := &cancellingMutator{cancel: cancel}
	history := placement.NewHistory(nil)
	m := metrics.New()
	d, err := placement.NewDispatcher(placement.DispatcherConfig{
		Client:      mutator,
		Notifier:    history,
		Concurrency: 1,
		Metrics:     m,
	})
	require.NoError(t, err)

	targets := []placement.Target{{ID: 1, Subject: "Asha"}, {ID: 2, Subject: "Ravi"}, {ID: 3, Subject: "Meera"}}
	report, err := d.Dispatch(ctx, placement.Place, targets)
	require.NoError(t, err)
	require.NoError(t, audit.Close())

	// Whether row 2 starts depends on timing; row 3 never does.
	require.ErrorIs(t, report.Outcomes[2].Err, context.Canceled)
	assert.Equal(t, report.Succeeded, int(mutator.calls.Load()))
	assert.Equal(t, 3, report.Succeeded+report.Failed)

	assert.Equal(t, 3, history.Len(), "every row is notified, started or not")
	assert.Contains(t, notificationLines(history), "error: Meera failed to place")

	data, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 3)

	textfile := filepath.Join(t.TempDir(), "placedesk.prom")
	require.NoError(t, m.WriteTextfile(textfile))
	prom, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), fmt.Sprintf(
		`placedesk_batch_mutations_total{action="place",outcome="failure"} %d`, report.Failed))
}

func notificationLines(h *placement.History) []string {
	var out []string
	for _, n := range h.Items() {
		out = append(out, n.Level+": "+n.Message)
	}
	return out
}

func TestDispatch_RefetchErrorIsReturned(t *testing.T) {
	_, client := newRecordingServer(t, okHandler)
	d, err := placement.NewDispatcher(placement.DispatcherConfig{
		Client:  client,
		Refetch: func(context.Context) error { return errors.New("backend down") },
	})
	require.NoError(t, err)

	report, err := d.Dispatch(context.Background(), placement.Reject, []placement.Target{{ID: 9, Subject: "X"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
	assert.Equal(t, 1, report.Succeeded)
}

func TestNewDispatcher_RequiresClient(t *testing.T) {
	_, err := placement.NewDispatcher(placement.DispatcherConfig{})
	require.Error(t, err)
}

func TestDownload(t *testing.T) {
	t.Run("blank rolls send nothing", func(t *testing.T) {
		for _, rolls := range []string{"", "   "} {
			rs, client := newRecordingServer(t, okHandler)
			d := placement.NewDownloader(client, placement.DirSaver{Dir: t.TempDir()}, nil)
			_, err := d.Download(context.Background(), rolls)
			require.ErrorIs(t, err, placement.ErrNoSelection)
			assert.Empty(t, rs.snapshot())
		}
	})

	t.Run("saves resume.zip", func(t *testing.T) {
		payload := []byte("PK\x03\x04binary-zip-bytes")
		rs, client := newRecordingServer(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
			w.Header().Set("Content-Type", "application/zip")
			_, _ = w.Write(payload)
		})
		dir := t.TempDir()
		d := placement.NewDownloader(client, placement.DirSaver{Dir: dir}, metrics.New())

		path, err := d.Download(context.Background(), "101,102")
		require.NoError(t, err)

		reqs := rs.snapshot()
		require.Len(t, reqs, 1)
		assert.Equal(t, http.MethodGet, reqs[0].Method)
		assert.Equal(t, "/api/admin/resume-zip", reqs[0].Path)
		assert.Equal(t, "rolls=101,102", reqs[0].RawQuery)

		assert.Equal(t, filepath.Join(dir, "resume.zip"), path)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "resume.zip", entries[0].Name())
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("server error saves nothing", func(t *testing.T) {
		_, client := newRecordingServer(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"data":null,"error":{"status":404,"name":"NotFoundError","message":"No resumes found for given rolls"}}`)
		})
		dir := t.TempDir()
		d := placement.NewDownloader(client, placement.DirSaver{Dir: dir}, nil)

		_, err := d.Download(context.Background(), "999")
		require.Error(t, err)
		var apiErr *strapi.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "No resumes found for given rolls", apiErr.Message)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestRollsAndTargets(t *testing.T) {
	rows := []placement.StudentRecord{
		placement.NewStudentRecord(1, placement.StudentAttributes{Name: "Asha", Roll: "101"}),
		placement.NewStudentRecord(2, placement.StudentAttributes{Name: "Blank", Roll: " "}),
		placement.NewStudentRecord(3, placement.StudentAttributes{Name: "Ravi", Roll: "102"}),
	}
	assert.Equal(t, "101,102", placement.RollsOf(rows))
	assert.Empty(t, placement.RollsOf([]placement.StudentRecord{}))

	targets := placement.Targets(rows)
	assert.Equal(t, placement.Target{ID: 3, Subject: "Ravi"}, targets[2])
}

func TestActionLookupAndMessages(t *testing.T) {
	a, ok := placement.ActionByName(placement.EntityApplication, "unplace")
	require.True(t, ok)
	assert.Equal(t, "Asha marked as unplaced", a.SuccessMessage("Asha"))
	assert.Equal(t, "Asha failed to unplace", a.FailureMessage("Asha"))

	_, ok = placement.ActionByName(placement.EntityStudent, "place")
	assert.False(t, ok)

	d, ok := placement.ActionByName(placement.EntityStudent, "decline")
	require.True(t, ok)
	assert.Equal(t, "/api/students/8", d.Path(8))
}

func TestExport(t *testing.T) {
	g := grid.New(placement.StudentColumns())
	g.Replace([]placement.StudentRecord{
		placement.NewStudentRecord(1, placement.StudentAttributes{Name: "Asha", Roll: "101"}),
		placement.NewStudentRecord(2, placement.StudentAttributes{Name: "Ravi", Roll: "102"}),
		placement.NewStudentRecord(3, placement.StudentAttributes{Name: "Meera", Roll: "103"}),
	})
	dir := t.TempDir()

	n, err := placement.Export(context.Background(), g, "csv", filepath.Join(dir, "all.csv"), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "empty selection exports every visible row")

	g.Toggle(2)
	n, err = placement.Export(context.Background(), g, "xlsx", filepath.Join(dir, "sel.xlsx"), metrics.New())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, filepath.Join(dir, "sel.xlsx"))

	_, err = placement.Export(context.Background(), g, "pdf", filepath.Join(dir, "x.pdf"), nil)
	require.Error(t, err)
	assert.Equal(t, "export.xlsx", placement.DefaultExportName("xlsx"))
}
