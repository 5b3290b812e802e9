package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pollinet/knowledgebot/internal/conversation"
	"github.com/pollinet/knowledgebot/internal/log"
	"github.com/pollinet/knowledgebot/internal/provider"
)

type stubAnswerer struct {
	answer  string
	err     error
	lastQ   string
	history []provider.Message
}

func (s *stubAnswerer) Answer(_ context.Context, query string, history []provider.Message) (string, error) {
	s.lastQ = query
	s.history = history
	return s.answer, s.err
}

func newAskServer(a Answerer, conv *conversation.Manager) *httptest.Server {
	mux := http.NewServeMux()
	NewAskHandler(a, conv, log.NewNop()).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAsk_AnswersAndRecordsHistory(t *testing.T) {
	answerer := &stubAnswerer{answer: "Pollinet relays transactions over BLE."}
	conv := conversation.NewManager(10, 100)
	srv := newAskServer(answerer, conv)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/ask", `{"channel_id": 42, "question": "What is Pollinet?"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body AskResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Answer != answerer.answer {
		t.Errorf("answer = %q", body.Answer)
	}
	if answerer.lastQ != "What is Pollinet?" {
		t.Errorf("engine got query %q", answerer.lastQ)
	}

	// Both turns recorded for the channel.
	hist := conv.History(42)
	if len(hist) != 2 || hist[0].Role != provider.RoleUser || hist[1].Role != provider.RoleAssistant {
		t.Errorf("history = %+v", hist)
	}
}

func TestAsk_HistoryPassedToEngine(t *testing.T) {
	answerer := &stubAnswerer{answer: "ok"}
	conv := conversation.NewManager(10, 100)
	conv.AppendUser(7, "earlier question")
	conv.AppendAssistant(7, "earlier answer")
	srv := newAskServer(answerer, conv)
	defer srv.Close()

	postJSON(t, srv.URL+"/api/ask", `{"channel_id": 7, "question": "follow up"}`)

	if len(answerer.history) != 2 {
		t.Fatalf("engine got %d history messages, want 2", len(answerer.history))
	}
	if answerer.history[0].Content != "earlier question" {
		t.Errorf("history[0] = %+v", answerer.history[0])
	}
}

func TestAsk_EngineFailureReturnsApology(t *testing.T) {
	answerer := &stubAnswerer{err: errors.New("provider down")}
	conv := conversation.NewManager(10, 100)
	srv := newAskServer(answerer, conv)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/ask", `{"channel_id": 1, "question": "hello?"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 with apology", resp.StatusCode)
	}

	var body AskResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Answer != genericApology {
		t.Errorf("answer = %q, want apology", body.Answer)
	}

	// A failed exchange must not be recorded.
	if got := conv.History(1); len(got) != 0 {
		t.Errorf("history = %+v, want empty", got)
	}
}

func TestAsk_BadRequests(t *testing.T) {
	srv := newAskServer(&stubAnswerer{}, conversation.NewManager(10, 100))
	defer srv.Close()

	for _, body := range []string{"not json", `{"channel_id": 1}`} {
		resp := postJSON(t, srv.URL+"/api/ask", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, resp.StatusCode)
		}
	}
}
