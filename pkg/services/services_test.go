package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitekit/sitekit/pkg/router"
)

func newTestRouter(t *testing.T, mux *http.ServeMux) *router.Router {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return router.New(router.Config{
		Context: router.ContextBrowser,
		URLs:    router.BaseURLs{PublicBackend: srv.URL},
	})
}

func TestTimerService_ListAndReset(t *testing.T) {
	last := time.Date(2026, 1, 15, 8, 30, 0, 0, time.UTC)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /timers", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]IncidentTimer{
			{ID: "t1", Name: "days since deploy broke prod", LastIncidentAt: last},
		})
	})
	var resetCalled bool
	mux.HandleFunc("POST /timers/t1/reset", func(w http.ResponseWriter, r *http.Request) {
		resetCalled = true
		_ = json.NewEncoder(w).Encode(IncidentTimer{ID: "t1", LastIncidentAt: time.Now()})
	})

	svc := NewTimerService(newTestRouter(t, mux), nil)

	timers, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, timers, 1)
	assert.Equal(t, "t1", timers[0].ID)
	assert.True(t, timers[0].LastIncidentAt.Equal(last))

	timer, err := svc.Reset(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, resetCalled)
	assert.Equal(t, "t1", timer.ID)
}

func TestTimerService_ErrorRecordedInState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/timers", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "admins only"})
	})

	svc := NewTimerService(newTestRouter(t, mux), nil)

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, "admins only", svc.State().Error())
	assert.Equal(t, http.StatusForbidden, svc.State().Status())
}

func TestPhraseService_ListFiltersByStatus(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/phrases", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]Phrase{{ID: "p1", Text: "hi", Status: PhraseStatusPending}})
	})

	svc := NewPhraseService(newTestRouter(t, mux), nil)

	status := PhraseStatusPending
	phrases, err := svc.List(context.Background(), &status)
	require.NoError(t, err)
	assert.Equal(t, "status=pending", gotQuery)
	require.Len(t, phrases, 1)

	// Nil status means no filter.
	_, err = svc.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestPhraseService_SuggestAndModerate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /phrases/suggest", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(Phrase{ID: "p9", Text: body["text"], Status: PhraseStatusPending})
	})
	var moderated map[string]string
	mux.HandleFunc("PUT /phrases/moderate/p9", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&moderated)
		w.WriteHeader(http.StatusOK)
	})

	svc := NewPhraseService(newTestRouter(t, mux), nil)

	phrase, err := svc.Suggest(context.Background(), "carpe diem")
	require.NoError(t, err)
	assert.Equal(t, "carpe diem", phrase.Text)
	assert.Equal(t, PhraseStatusPending, phrase.Status)

	require.NoError(t, svc.Moderate(context.Background(), "p9", PhraseStatusApproved))
	assert.Equal(t, string(PhraseStatusApproved), moderated["status"])
}

func TestAdminService_UserModeration(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/users/pending", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]PendingUser{{ID: "u7", Email: "new@example.com"}})
	})
	var approved, rejected bool
	mux.HandleFunc("POST /admin/users/u7/approve", func(w http.ResponseWriter, r *http.Request) {
		approved = true
	})
	mux.HandleFunc("POST /admin/users/u8/reject", func(w http.ResponseWriter, r *http.Request) {
		rejected = true
	})

	svc := NewAdminService(newTestRouter(t, mux), nil)

	users, err := svc.PendingUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "new@example.com", users[0].Email)

	require.NoError(t, svc.ApproveUser(context.Background(), "u7"))
	require.NoError(t, svc.RejectUser(context.Background(), "u8"))
	assert.True(t, approved)
	assert.True(t, rejected)
}

func TestAdminService_AccessRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/access-requests", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]AccessRequest{{ID: "a1", Email: "guest@example.com"}})
	})
	var resolved map[string]bool
	mux.HandleFunc("POST /admin/access-requests/a1/resolve", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&resolved)
	})

	svc := NewAdminService(newTestRouter(t, mux), nil)

	reqs, err := svc.AccessRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	require.NoError(t, svc.ResolveAccessRequest(context.Background(), "a1", true))
	assert.True(t, resolved["approve"])
}
