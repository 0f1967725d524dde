package housecall

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient("key", "co_1", nil, WithBaseURL(ts.URL)), ts
}

func TestLookupCustomer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customers" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "6175551234" {
			t.Fatalf("unexpected search term %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Fatalf("unexpected auth header %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"customers": []map[string]any{
				{"id": "cus_1", "first_name": "Jane", "last_name": "Doe", "mobile_number": "6175551234"},
			},
		})
	})

	customers, err := c.LookupCustomer(context.Background(), "6175551234")
	if err != nil {
		t.Fatalf("LookupCustomer error: %v", err)
	}
	if len(customers) != 1 || customers[0].ID != "cus_1" {
		t.Fatalf("unexpected customers: %+v", customers)
	}
	if customers[0].Name() != "Jane Doe" {
		t.Fatalf("unexpected display name %q", customers[0].Name())
	}
}

func TestLookupCustomerEmptyTerm(t *testing.T) {
	c := NewClient("key", "", nil)
	if _, err := c.LookupCustomer(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty search term")
	}
}

func TestCreateLead(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/leads" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req LeadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode req: %v", err)
		}
		if req.Source != "website_chat" {
			t.Fatalf("unexpected source %q", req.Source)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"lead": map[string]any{"id": "lead_42"}})
	})

	id, err := c.CreateLead(context.Background(), LeadRequest{
		Name:    "Jane Doe",
		Phone:   "6175551234",
		Message: "Leaky faucet",
		Source:  "website_chat",
	})
	if err != nil {
		t.Fatalf("CreateLead error: %v", err)
	}
	if id != "lead_42" {
		t.Fatalf("unexpected lead id %q", id)
	}
}

func TestBookServiceCallSendsIdempotencyKey(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Idempotency-Key"); got != "corr-123" {
			t.Fatalf("unexpected idempotency key %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"job": map[string]any{"id": "job_ab12cd34ef", "work_status": "needs_scheduling"},
		})
	})

	job, err := c.BookServiceCall(context.Background(), BookingRequest{
		FirstName:     "Jane",
		LastName:      "Doe",
		Phone:         "6175551234",
		ServiceType:   "plumbing",
		PreferredDate: "2025-06-01",
		PreferredTime: "MORNING",
	}, "corr-123")
	if err != nil {
		t.Fatalf("BookServiceCall error: %v", err)
	}
	if job.ID != "job_ab12cd34ef" {
		t.Fatalf("unexpected job id %q", job.ID)
	}
}

func TestBookServiceCallAPIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"technician unavailable"}`, http.StatusConflict)
	})

	if _, err := c.BookServiceCall(context.Background(), BookingRequest{}, ""); err == nil {
		t.Fatal("expected error on 409 response")
	}
}

func TestJobsScheduledOn(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("scheduled_start_min"); got != "2025-06-01T00:00:00Z" {
			t.Fatalf("unexpected min bound %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jobs": []map[string]any{
				{"id": "job_1", "work_status": "scheduled", "scheduled_start": "2025-06-01T09:00:00Z"},
				{"id": "job_2", "work_status": "scheduled", "scheduled_start": "2025-06-01T14:00:00Z"},
			},
		})
	})

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	jobs, err := c.JobsScheduledOn(context.Background(), date)
	if err != nil {
		t.Fatalf("JobsScheduledOn error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ScheduledStart == nil || jobs[0].ScheduledStart.Hour() != 9 {
		t.Fatalf("unexpected scheduled start: %+v", jobs[0].ScheduledStart)
	}
}

func TestDispatchableTechCount(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"employees": []map[string]any{
				{"id": "emp_1", "role": "field tech", "dispatchable": true},
				{"id": "emp_2", "role": "office", "dispatchable": false},
				{"id": "emp_3", "role": "field tech", "dispatchable": true},
			},
		})
	})

	n, err := c.DispatchableTechCount(context.Background())
	if err != nil {
		t.Fatalf("DispatchableTechCount error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 dispatchable techs, got %d", n)
	}
}

func TestMissingAPIKey(t *testing.T) {
	c := NewClient("", "", nil)
	if _, err := c.LookupCustomer(context.Background(), "jane"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}
