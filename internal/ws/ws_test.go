package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/usecase"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/matches" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNotifier_BroadcastsToJobSubscribers(t *testing.T) {
	hub := NewHub(nil)
	done := make(chan struct{})
	defer close(done)
	go hub.Run(done)

	srv := httptest.NewServer(NewHandler(hub, nil).Mux())
	defer srv.Close()

	jobID := uuid.New()
	all := dial(t, srv, "")
	scoped := dial(t, srv, "?job_id="+jobID.String())
	other := dial(t, srv, "?job_id="+uuid.New().String())
	waitForClients(t, hub, 3)

	matches := make([]usecase.CandidateMatch, 0, 7)
	for i := 0; i < 7; i++ {
		matches = append(matches, usecase.CandidateMatch{MatchScore: matching.MatchScore{CandidateID: uuid.New(), TotalScore: float64(90 - i)}})
	}
	NewNotifier(hub, nil).MatchingCompleted(context.Background(), usecase.MatchingResult{
		JobID:               jobID,
		TotalCandidates:     7,
		QualifiedCandidates: 4,
		Matches:             matches,
	})

	for _, conn := range []*websocket.Conn{all, scoped} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var evt MatchingCompletedEvent
		if err := json.Unmarshal(raw, &evt); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if evt.Type != "matching_completed" || evt.JobID != jobID || evt.QualifiedCandidates != 4 {
			t.Fatalf("unexpected event %+v", evt)
		}
		if len(evt.TopMatches) != topMatchesInEvent || evt.TopMatches[0].TotalScore != 90 {
			t.Fatalf("expected top %d matches, got %+v", topMatchesInEvent, evt.TopMatches)
		}
	}

	_ = other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Fatalf("expected no event for a different job")
	}
}

func TestHandler_RejectsInvalidJobID(t *testing.T) {
	srv := httptest.NewServer(NewHandler(NewHub(nil), nil).Mux())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/matches?job_id=nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %+v", resp)
	}
}
