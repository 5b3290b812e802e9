package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pollinet/knowledgebot/internal/log"
	knowsync "github.com/pollinet/knowledgebot/internal/sync"
)

type stubSyncRunner struct {
	res knowsync.Result
	err error
}

func (s *stubSyncRunner) Run(context.Context) (knowsync.Result, error) {
	return s.res, s.err
}

func newSyncServer(r SyncRunner) *httptest.Server {
	mux := http.NewServeMux()
	NewSyncHandler(r, log.NewNop()).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func TestSync_ReturnsResult(t *testing.T) {
	srv := newSyncServer(&stubSyncRunner{res: knowsync.Result{Added: 3, Skipped: 2}})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/sync", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var res knowsync.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if res.Added != 3 || res.Skipped != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestSync_ConflictWhenAlreadyRunning(t *testing.T) {
	srv := newSyncServer(&stubSyncRunner{err: knowsync.ErrSyncInProgress})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/sync", "")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestSync_FailureReturns500(t *testing.T) {
	srv := newSyncServer(&stubSyncRunner{err: errors.New("twitter down")})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/sync", "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestSync_UnconfiguredReturns503(t *testing.T) {
	srv := newSyncServer(nil)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/sync", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}
