package ws

import (
	"context"
	"encoding/json"
	"time"

	"talent-match/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const topMatchesInEvent = 5

type TopMatch struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	TotalScore  float64   `json:"total_score"`
	IsQualified bool      `json:"is_qualified"`
}

type MatchingCompletedEvent struct {
	Type                string     `json:"type"`
	JobID               uuid.UUID  `json:"job_id"`
	TotalCandidates     int        `json:"total_candidates"`
	QualifiedCandidates int        `json:"qualified_candidates"`
	FailedCandidates    int        `json:"failed_candidates"`
	TopMatches          []TopMatch `json:"top_matches"`
	Timestamp           string     `json:"timestamp"`
}

// Notifier publishes finished matching runs to websocket subscribers.
type Notifier struct {
	hub    *Hub
	now    func() time.Time
	logger *zap.Logger
}

var _ usecase.MatchingEvents = (*Notifier)(nil)

func NewNotifier(hub *Hub, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{hub: hub, now: time.Now, logger: logger}
}

func (n *Notifier) MatchingCompleted(_ context.Context, res usecase.MatchingResult) {
	if n == nil || n.hub == nil {
		return
	}

	top := make([]TopMatch, 0, topMatchesInEvent)
	for _, m := range res.Matches {
		if len(top) == topMatchesInEvent {
			break
		}
		top = append(top, TopMatch{CandidateID: m.CandidateID, TotalScore: m.TotalScore, IsQualified: m.IsQualified})
	}

	evt := MatchingCompletedEvent{
		Type:                "matching_completed",
		JobID:               res.JobID,
		TotalCandidates:     res.TotalCandidates,
		QualifiedCandidates: res.QualifiedCandidates,
		FailedCandidates:    res.FailedCandidates,
		TopMatches:          top,
		Timestamp:           n.now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		n.logger.Warn("ws event encode failed", zap.Error(err))
		return
	}
	n.hub.Broadcast(res.JobID.String(), b)
}
