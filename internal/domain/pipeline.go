package domain

import "time"

// RematchSummary totals one pass of matching over every parsed job.
type RematchSummary struct {
	Jobs                int           `json:"jobs"`
	Succeeded           int           `json:"succeeded"`
	Failed              int           `json:"failed"`
	CandidatesScored    int           `json:"candidates_scored"`
	CandidatesQualified int           `json:"candidates_qualified"`
	CandidatesFailed    int           `json:"candidates_failed"`
	Duration            time.Duration `json:"duration"`
}

type PipelineStatus struct {
	Running     bool            `json:"running"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	FinishedAt  *time.Time      `json:"finished_at,omitempty"`
	LastSummary *RematchSummary `json:"last_summary,omitempty"`
	LastError   string          `json:"last_error,omitempty"`

	DatabaseHealthy bool      `json:"database_healthy"`
	RedisHealthy    bool      `json:"redis_healthy"`
	ServerTime      time.Time `json:"server_time"`
}
