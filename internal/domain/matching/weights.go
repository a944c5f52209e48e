package matching

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidWeights = errors.New("invalid matching weights")

const (
	DefaultQualificationThreshold = 70.0

	weightSumTolerance = 1e-6
)

// Criteria names as persisted in the weight store.
const (
	CriteriaSkills                 = "skills"
	CriteriaExperience             = "experience"
	CriteriaEducation              = "education"
	CriteriaLocation               = "location"
	CriteriaSalary                 = "salary"
	CriteriaQualificationThreshold = "qualification_threshold"
)

// Weights is the active coefficient set. The five factor weights must sum to 1.0.
type Weights struct {
	Skills     float64 `json:"skills" yaml:"skills"`
	Experience float64 `json:"experience" yaml:"experience"`
	Education  float64 `json:"education" yaml:"education"`
	Location   float64 `json:"location" yaml:"location"`
	Salary     float64 `json:"salary" yaml:"salary"`

	QualificationThreshold float64 `json:"qualification_threshold" yaml:"qualification_threshold"`
}

func DefaultWeights() Weights {
	return Weights{
		Skills:                 0.5,
		Experience:             0.25,
		Education:              0.15,
		Location:               0.05,
		Salary:                 0.05,
		QualificationThreshold: DefaultQualificationThreshold,
	}
}

func (w Weights) Sum() float64 {
	return w.Skills + w.Experience + w.Education + w.Location + w.Salary
}

func (w Weights) Validate() error {
	named := []struct {
		name string
		v    float64
	}{
		{CriteriaSkills, w.Skills},
		{CriteriaExperience, w.Experience},
		{CriteriaEducation, w.Education},
		{CriteriaLocation, w.Location},
		{CriteriaSalary, w.Salary},
	}
	for _, n := range named {
		if math.IsNaN(n.v) || math.IsInf(n.v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidWeights, n.name)
		}
		if n.v < 0 {
			return fmt.Errorf("%w: %s is negative (%v)", ErrInvalidWeights, n.name, n.v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.4f, want 1.0", ErrInvalidWeights, sum)
	}
	if t := w.QualificationThreshold; math.IsNaN(t) || t < 0 || t > 100 {
		return fmt.Errorf("%w: qualification threshold %v outside [0,100]", ErrInvalidWeights, t)
	}
	return nil
}

// AsCriteria flattens the weight set into the persisted criteria rows.
func (w Weights) AsCriteria() map[string]float64 {
	return map[string]float64{
		CriteriaSkills:                 w.Skills,
		CriteriaExperience:             w.Experience,
		CriteriaEducation:              w.Education,
		CriteriaLocation:               w.Location,
		CriteriaSalary:                 w.Salary,
		CriteriaQualificationThreshold: w.QualificationThreshold,
	}
}

// WeightsFromCriteria rebuilds a weight set; missing criteria fall back to the defaults.
func WeightsFromCriteria(m map[string]float64) Weights {
	w := DefaultWeights()
	if len(m) == 0 {
		return w
	}
	pick := func(key string, dst *float64) {
		if v, ok := m[key]; ok {
			*dst = v
		}
	}
	pick(CriteriaSkills, &w.Skills)
	pick(CriteriaExperience, &w.Experience)
	pick(CriteriaEducation, &w.Education)
	pick(CriteriaLocation, &w.Location)
	pick(CriteriaSalary, &w.Salary)
	pick(CriteriaQualificationThreshold, &w.QualificationThreshold)
	return w
}
