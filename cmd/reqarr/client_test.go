package main

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/vmunix/reqarr/internal/api/v1"
	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/pvr"
	"github.com/vmunix/reqarr/internal/quota"
	"github.com/vmunix/reqarr/internal/request"
)

func TestClient_Status_NoUser(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/status").
		ExpectGET().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get(v1.HeaderUserID))
			respondJSON(t, w, v1.StatusResponse{Status: "ok", Version: "1.2.3"})
		}).
		Build()
	defer srv.Close()

	s, err := NewClient(srv.URL, "").Status()
	require.NoError(t, err)
	assert.Equal(t, "ok", s.Status)
	assert.Equal(t, "1.2.3", s.Version)
}

func TestClient_Requests_Filters(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/requests").
		ExpectGET().
		ExpectUser("alice").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "pending", r.URL.Query().Get("status"))
			assert.Equal(t, "bob", r.URL.Query().Get("user_id"))
			respondJSON(t, w, ListRequestsResponse{
				Items: []*request.Request{{ID: 7, UserID: "bob", MediaID: 603, Kind: media.KindMovie, Status: request.StatusPending}},
				Total: 1,
			})
		}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL, "alice").Requests("pending", "bob")
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(7), resp.Items[0].ID)
	assert.Equal(t, request.StatusPending, resp.Items[0].Status)
}

func TestClient_UpdateRequest(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/requests/7").
		ExpectPATCH().
		ExpectUser("admin").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Approved", body["status"])
			respondJSON(t, w, request.Request{ID: 7, Status: request.StatusApproved})
		}).
		Build()
	defer srv.Close()

	r, err := NewClient(srv.URL, "admin").UpdateRequest(7, request.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, request.StatusApproved, r.Status)
}

func TestClient_DeleteRequest_NoContent(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/requests/7").
		ExpectDELETE().
		RespondStatus(http.StatusNoContent).
		Build()
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, "alice").DeleteRequest(7))
}

func TestClient_CountRequests(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/requests/count/bob").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "3", r.URL.Query().Get("days"))
			respondJSON(t, w, v1.CountResponse{UserID: "bob", Days: 3, Count: 2})
		}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL, "admin").CountRequests("bob", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
}

func TestClient_CountRequests_DefaultWindow(t *testing.T) {
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.RawQuery)
			respondJSON(t, w, v1.CountResponse{UserID: "bob", Days: 7})
		}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL, "admin").CountRequests("bob", 0)
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Days)
}

func TestClient_Quota(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/quota").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "movie", r.URL.Query().Get("kind"))
			respondJSON(t, w, v1.QuotaResponse{
				UserID: "alice",
				Kind:   "movie",
				Result: quota.Result{Allowed: true, Remaining: 1, Limit: 2, Count: 1, WindowDays: 7},
			})
		}).
		Build()
	defer srv.Close()

	q, err := NewClient(srv.URL, "alice").Quota("movie")
	require.NoError(t, err)
	assert.True(t, q.Allowed)
	assert.Equal(t, 1, q.Remaining)
}

func TestClient_Acquire(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/acquire").
		ExpectPOST().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body v1.AcquireBody
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "series", body.Kind)
			require.NotNil(t, body.Season)
			assert.Equal(t, 2, *body.Season)
			assert.Nil(t, body.Episode)
			respondJSON(t, w, v1.AcquireResponse{RunID: "r1", State: "done", Release: "Show.S02.1080p"})
		}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL, "alice").Acquire(v1.AcquireBody{Kind: "series", MediaID: 1399, Season: media.IntPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, "Show.S02.1080p", resp.Release)
}

func TestClient_Progress(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/progress").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "series", q.Get("kind"))
			assert.Equal(t, "1399", q.Get("media_id"))
			assert.Equal(t, "1", q.Get("season"))
			respondJSON(t, w, v1.ProgressResponse{Downloading: true, Progress: &pvr.Progress{Progress: 42.5, TimeLeft: "00:10:00"}})
		}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL, "alice").Progress("series", 1399, media.IntPtr(1))
	require.NoError(t, err)
	require.True(t, resp.Downloading)
	assert.InDelta(t, 42.5, resp.Progress.Progress, 0.001)
	assert.Equal(t, "00:10:00", progressOf(resp).TimeLeft)
}

func TestClient_Progress_NotDownloading(t *testing.T) {
	srv := newMockServer(t).
		RespondJSON(v1.ProgressResponse{Downloading: false}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL, "alice").Progress("movie", 603, nil)
	require.NoError(t, err)
	assert.False(t, resp.Downloading)
	assert.Nil(t, progressOf(resp))
}

func TestClient_Events_Since(t *testing.T) {
	since := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	srv := newMockServer(t).
		ExpectPath("/api/v1/events").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2024-03-09T12:00:00Z", r.URL.Query().Get("since"))
			assert.Equal(t, "50", r.URL.Query().Get("limit"))
			respondJSON(t, w, ListEventsResponse{
				Items: []v1.EventResponse{{ID: 1, EventType: "request.created", EntityType: "request", EntityID: 7}},
				Total: 1,
			})
		}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL, "alice").Events(since, 50)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "request.created", resp.Items[0].EventType)
}

func TestClient_APIError(t *testing.T) {
	srv := newMockServer(t).
		RespondError(http.StatusForbidden, "FORBIDDEN", "only admins can approve requests").
		Build()
	defer srv.Close()

	_, err := NewClient(srv.URL, "alice").UpdateRequest(7, request.StatusApproved)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "FORBIDDEN", apiErr.Code)
	assert.Equal(t, "only admins can approve requests (FORBIDDEN)", err.Error())
}

func TestClient_PlainTextError(t *testing.T) {
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}).
		Build()
	defer srv.Close()

	_, err := NewClient(srv.URL, "alice").Status()
	require.Error(t, err)
	assert.Equal(t, "server error 502: bad gateway", err.Error())
}

func TestClient_TrimsTrailingSlash(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/status").
		RespondJSON(v1.StatusResponse{Status: "ok"}).
		Build()
	defer srv.Close()

	_, err := NewClient(srv.URL+"/", "").Status()
	require.NoError(t, err)
}

func TestClient_EntityEvents(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/events/request/7").
		ExpectGET().
		RespondJSON(ListEventsResponse{
			Items: []v1.EventResponse{
				{ID: 1, EventType: "request.created", EntityType: "request", EntityID: 7},
				{ID: 2, EventType: "request.status.changed", EntityType: "request", EntityID: 7},
			},
			Total: 2,
		}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL, "alice").EntityEvents("request", 7)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
}
