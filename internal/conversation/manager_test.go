package conversation

import (
	"fmt"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/pollinet/knowledgebot/internal/provider"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAppendAndHistory(t *testing.T) {
	m := NewManager(10, 100)

	m.AppendUser(1, "question")
	m.AppendAssistant(1, "answer")

	history := m.History(1)
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != provider.RoleUser || history[0].Content != "question" {
		t.Errorf("history[0] = %+v", history[0])
	}
	if history[1].Role != provider.RoleAssistant || history[1].Content != "answer" {
		t.Errorf("history[1] = %+v", history[1])
	}
}

func TestSlidingWindow(t *testing.T) {
	const maxHistory = 10
	m := NewManager(maxHistory, 100)

	// Appending maxHistory+3 messages leaves exactly maxHistory survivors,
	// oldest-first order preserved.
	for i := 0; i < maxHistory+3; i++ {
		m.AppendUser(1, fmt.Sprintf("msg %d", i))
	}

	history := m.History(1)
	if len(history) != maxHistory {
		t.Fatalf("history length = %d, want %d", len(history), maxHistory)
	}
	if history[0].Content != "msg 3" {
		t.Errorf("oldest survivor = %q, want msg 3", history[0].Content)
	}
	if history[maxHistory-1].Content != fmt.Sprintf("msg %d", maxHistory+2) {
		t.Errorf("newest survivor = %q", history[maxHistory-1].Content)
	}
}

func TestHistory_EmptyChannel(t *testing.T) {
	m := NewManager(10, 100)
	if got := m.History(42); got != nil {
		t.Errorf("History(unknown) = %v, want nil", got)
	}
}

func TestHistory_ReturnsCopy(t *testing.T) {
	m := NewManager(10, 100)
	m.AppendUser(1, "original")

	history := m.History(1)
	history[0].Content = "mutated"

	if got := m.History(1)[0].Content; got != "original" {
		t.Errorf("stored history mutated through returned slice: %q", got)
	}
}

func TestClear(t *testing.T) {
	m := NewManager(10, 100)
	m.AppendUser(1, "msg")
	m.Clear(1)

	if got := m.History(1); got != nil {
		t.Errorf("History after Clear = %v, want nil", got)
	}
	if m.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", m.Len())
	}
}

func TestChannelCapEvictsLRU(t *testing.T) {
	m := NewManager(10, 3)

	m.AppendUser(1, "a")
	m.AppendUser(2, "b")
	m.AppendUser(3, "c")
	m.AppendUser(2, "touch") // channel 1 is now least recently used

	m.AppendUser(4, "d") // exceeds cap, evicts channel 1

	if m.Len() != 3 {
		t.Fatalf("Len = %d, want 3", m.Len())
	}
	if got := m.History(1); got != nil {
		t.Errorf("channel 1 should have been evicted, got %v", got)
	}
	if got := m.History(2); len(got) != 2 {
		t.Errorf("channel 2 history = %v, want 2 messages", got)
	}
}

func TestConcurrentAppends(t *testing.T) {
	m := NewManager(50, 100)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				m.AppendUser(int64(g%4), "msg")
				_ = m.History(int64(g % 4))
			}
		}(g)
	}
	wg.Wait()

	for ch := int64(0); ch < 4; ch++ {
		if got := len(m.History(ch)); got > 50 {
			t.Errorf("channel %d history = %d messages, want <= 50", ch, got)
		}
	}
}
