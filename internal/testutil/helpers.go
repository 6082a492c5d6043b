// Package testutil provides shared test helpers for the campaign-notifier project.
// Import this in test files to avoid duplicating report builders and Slack API fakes.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/potooio/campaign-notifier/internal/types"
)

// ReportStart is the start time used by MakeReport.
var ReportStart = time.Date(2022, 10, 29, 0, 0, 0, 0, time.UTC)

// MakeReport creates a finished CampaignReport that ran for 10 seconds.
func MakeReport(key string, status types.ExecutionStatus) types.CampaignReport {
	end := ReportStart.Add(10 * time.Second)
	return types.CampaignReport{
		CampaignKey:          key,
		Status:               status,
		Start:                ReportStart,
		End:                  &end,
		ScheduledMinions:     4,
		StartedMinions:       1000,
		CompletedMinions:     990,
		SuccessfulExecutions: 990,
		FailedExecutions:     10,
	}
}

// SlackRequest is a chat.postMessage call captured by FakeSlackAPI.
type SlackRequest struct {
	Path        string
	Token       string
	Channel     string
	Blocks      []map[string]interface{}
	Attachments []map[string]interface{}
}

// FakeSlackAPI is an httptest server speaking enough of the Slack Web API for chat.postMessage.
type FakeSlackAPI struct {
	*httptest.Server

	calls atomic.Int32

	mu         sync.Mutex
	requests   []SlackRequest
	statusCode int
	slackError string
}

// NewFakeSlackAPI starts a fake that answers every post with ok=true.
// The server is closed when the test finishes.
func NewFakeSlackAPI(t *testing.T) *FakeSlackAPI {
	t.Helper()
	f := &FakeSlackAPI{statusCode: http.StatusOK}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.handle(t, w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

// FailWith makes subsequent posts fail. A non-200 status produces an HTTP error;
// a 200 status with slackError produces an ok=false API error.
func (f *FakeSlackAPI) FailWith(statusCode int, slackError string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCode = statusCode
	f.slackError = slackError
}

// PostMessageURL returns the full chat.postMessage endpoint of the fake.
func (f *FakeSlackAPI) PostMessageURL() string {
	return f.URL + "/api/chat.postMessage"
}

// Calls returns the number of requests received.
func (f *FakeSlackAPI) Calls() int32 {
	return f.calls.Load()
}

// Requests returns a copy of the captured requests.
func (f *FakeSlackAPI) Requests() []SlackRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SlackRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeSlackAPI) handle(t *testing.T, w http.ResponseWriter, r *http.Request) {
	defer f.calls.Add(1)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := SlackRequest{
		Path:    r.URL.Path,
		Token:   r.FormValue("token"),
		Channel: r.FormValue("channel"),
	}
	if req.Token == "" {
		req.Token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if raw := r.FormValue("blocks"); raw != "" {
		assert.NoError(t, json.Unmarshal([]byte(raw), &req.Blocks))
	}
	if raw := r.FormValue("attachments"); raw != "" {
		assert.NoError(t, json.Unmarshal([]byte(raw), &req.Attachments))
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	statusCode, slackError := f.statusCode, f.slackError
	f.mu.Unlock()

	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if slackError != "" {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": slackError})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":      true,
		"channel": "C0CAMPAIGN",
		"ts":      "1667001610.000100",
	})
}
