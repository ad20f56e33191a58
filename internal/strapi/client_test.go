package strapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placedesk/placedesk/internal/metrics"
)

type testProgram struct {
	ProgramName string `json:"program_name"`
}

type testStudent struct {
	Name    string                `json:"name"`
	Roll    string                `json:"roll"`
	CPI     FlexString            `json:"cpi"`
	Program Relation[testProgram] `json:"program"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *metrics.Metrics) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	m := metrics.New()
	c, err := NewClient(Config{BaseURL: srv.URL + "/", Token: "tok", Metrics: m})
	require.NoError(t, err)
	return c, m
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestGetJSON(t *testing.T) {
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/students", r.URL.Path)
		assert.Equal(t, "filters[approved][$eq]=pending&populate=*", r.URL.RawQuery)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Len(t, r.Header.Get(HeaderRequestID), 36)

		_, _ = io.WriteString(w, `{"data":[
			{"id":1,"attributes":{"name":"Asha","roll":"101","cpi":8.5,
				"program":{"data":{"id":3,"attributes":{"program_name":"BTech"}}}}},
			{"id":2,"attributes":{"name":"Ravi","roll":"102","cpi":"7.25","program":{"data":null}}}
		],"meta":{}}`)
	})

	var out ListResponse[testStudent]
	q := NewQuery().FilterEq("pending", "approved").PopulateAll()
	require.NoError(t, c.GetJSON(context.Background(), "/api/students", q, &out))

	require.Len(t, out.Data, 2)
	assert.Equal(t, 1, out.Data[0].ID)
	assert.Equal(t, "8.5", out.Data[0].Attributes.CPI.String())
	assert.Equal(t, "BTech", out.Data[0].Attributes.Program.Get().ProgramName)
	assert.Equal(t, "7.25", string(out.Data[1].Attributes.CPI))
	assert.Empty(t, out.Data[1].Attributes.Program.Get().ProgramName)

	assert.InDelta(t, 1, mustCounter(t, m, "GET", "200"), 0)
}

func mustCounter(t *testing.T, m *metrics.Metrics, method, code string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != "placedesk_api_requests_total" {
			continue
		}
		for _, metric := range fam.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["method"] == method && labels["code"] == code {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestPutData(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/applications/7", r.URL.Path)

		var body map[string]map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "selected", body["data"]["status"])
		_, _ = io.WriteString(w, `{"data":{"id":7}}`)
	})

	require.NoError(t, c.PutData(context.Background(), "/api/applications/7", map[string]string{"status": "selected"}))
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantUnauth  bool
	}{
		{
			name:        "strapi error envelope",
			status:      http.StatusBadRequest,
			body:        `{"data":null,"error":{"status":400,"name":"ValidationError","message":"No resumes found"}}`,
			wantMessage: "No resumes found",
		},
		{
			name:        "plain body",
			status:      http.StatusInternalServerError,
			body:        "boom\n",
			wantMessage: "boom",
		},
		{
			name:        "empty body",
			status:      http.StatusBadGateway,
			wantMessage: "Bad Gateway",
		},
		{
			name:        "forbidden",
			status:      http.StatusForbidden,
			body:        `{"error":{"status":403,"name":"ForbiddenError","message":"Forbidden"}}`,
			wantMessage: "Forbidden",
			wantUnauth:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := c.PutData(context.Background(), "/api/students/1", map[string]string{"approved": "approved"})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantUnauth, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/api/students", nil)
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestQueryEncode(t *testing.T) {
	q := NewQuery().
		Populate("student.course", "job.company", "student.program").
		FilterEq("42", "job", "id")
	assert.Equal(t,
		"populate[0]=student.course&populate[1]=job.company&populate[2]=student.program&filters[job][id][$eq]=42",
		q.Encode())

	assert.Equal(t, "rolls=101,102", NewQuery().Set("rolls", "101,102").Encode())
	assert.Equal(t, "q=a%20b%26c", NewQuery().Set("q", "a b&c").Encode())

	var nilQuery *Query
	assert.Empty(t, nilQuery.Encode())
}

func TestFlexString(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":92,"b":"88.4","c":null}`), &v))
	assert.Equal(t, FlexString("92"), v.A)
	assert.Equal(t, FlexString("88.4"), v.B)
	assert.Empty(t, v.C)

	out, err := json.Marshal(v.A)
	require.NoError(t, err)
	assert.JSONEq(t, `"92"`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}
