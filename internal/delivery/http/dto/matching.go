package dto

import (
	"talent-match/internal/domain/matching"

	"github.com/google/uuid"
)

type RunMatchingRequest struct {
	CandidateIDs []uuid.UUID `json:"candidate_ids"`
	Limit        int         `json:"limit"`
}

type WeightsRequest struct {
	Skills                 float64 `json:"skills"`
	Experience             float64 `json:"experience"`
	Education              float64 `json:"education"`
	Location               float64 `json:"location"`
	Salary                 float64 `json:"salary"`
	QualificationThreshold float64 `json:"qualification_threshold"`
}

func (r WeightsRequest) Weights() matching.Weights {
	return matching.Weights{
		Skills:                 r.Skills,
		Experience:             r.Experience,
		Education:              r.Education,
		Location:               r.Location,
		Salary:                 r.Salary,
		QualificationThreshold: r.QualificationThreshold,
	}
}

type CleanupResponse struct {
	Deleted int64  `json:"deleted"`
	Window  string `json:"older_than"`
}
