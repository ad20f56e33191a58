package cli_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/placedesk/placedesk/internal/cli"
	"github.com/placedesk/placedesk/internal/config"
)

const applicationsJSON = `{"data":[
  {"id":11,"attributes":{"status":"applied",
    "student":{"data":{"id":101,"attributes":{"name":"Asha","roll":"2001CS01","cpi":9.2,
      "program":{"data":{"id":1,"attributes":{"program_name":"BTech"}}}}}},
    "job":{"data":{"id":42,"attributes":{"job_title":"SDE","classification":"A1"}}}}},
  {"id":12,"attributes":{"status":"selected",
    "student":{"data":{"id":102,"attributes":{"name":"Ravi","roll":"2001EE07","cpi":"7.8"}}},
    "job":{"data":{"id":42,"attributes":{"job_title":"SDE","classification":"A1"}}}}}
]}`

const studentsJSON = `{"data":[
  {"id":7,"attributes":{"name":"Kiran","roll":"2101ME11","approved":"pending","registered_for":"Placement"}},
  {"id":8,"attributes":{"name":"Meera","roll":"2101CH04","approved":"pending","registered_for":"Internship"}}
]}`

const resumeArchive = "PK\x03\x04fake-zip"

// fakeStrapi is an in-memory content API that records mutations.
type fakeStrapi struct {
	mu         sync.Mutex
	puts       []string
	bodies     map[string]string
	listCalls  int
	zipQueries []string
	failPaths  map[string]bool
}

func newFakeStrapi(t *testing.T, failPaths ...string) (*fakeStrapi, *httptest.Server) {
	t.Helper()
	f := &fakeStrapi{bodies: map[string]string{}, failPaths: map[string]bool{}}
	for _, p := range failPaths {
		f.failPaths[p] = true
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeStrapi) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer test-token" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"status":401,"message":"Missing or invalid credentials"}}`)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/applications":
		f.listCalls++
		_, _ = io.WriteString(w, applicationsJSON)
	case r.Method == http.MethodGet && r.URL.Path == "/api/students":
		f.listCalls++
		_, _ = io.WriteString(w, studentsJSON)
	case r.Method == http.MethodGet && r.URL.Path == "/api/admin/resume-zip":
		f.zipQueries = append(f.zipQueries, r.URL.Query().Get("rolls"))
		w.Header().Set("Content-Type", "application/zip")
		_, _ = io.WriteString(w, resumeArchive)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.puts = append(f.puts, r.URL.Path)
		f.bodies[r.URL.Path] = string(body)
		if f.failPaths[r.URL.Path] {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":{"status":500,"message":"Internal Server Error"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"status":404,"message":"Not Found"}}`)
	}
}

func (f *fakeStrapi) putPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.puts...)
}

func (f *fakeStrapi) lists() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// setupCLITest isolates config and points the CLI at srv.
func setupCLITest(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvExportDir, t.TempDir())
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvAPIToken, "")
	if srv != nil {
		t.Setenv(config.EnvAPIURL, srv.URL)
		t.Setenv(config.EnvAPIToken, "test-token")
	}
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// executeCLI runs the root command with args and stdin, returning stdout and stderr.
func executeCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
