// Package scoring turns intake answers into four constraint dimensions.
package scoring

import (
	"sort"

	"clarity-backend/internal/diagnostic/intake"
)

// Dimension names one of the four constraint dimensions.
type Dimension string

const (
	FounderCentralization Dimension = "founderCentralization"
	StructuralFragility   Dimension = "structuralFragility"
	DecisionBottleneck    Dimension = "decisionBottleneck"
	CapacityConstraint    Dimension = "capacityConstraint"
)

// Dimensions lists every dimension in declaration order, which is also the
// tie-break order of Rank.
var Dimensions = []Dimension{FounderCentralization, StructuralFragility, DecisionBottleneck, CapacityConstraint}

var labels = map[Dimension]string{
	FounderCentralization: "Founder Dependency",
	StructuralFragility:   "System Fragility",
	DecisionBottleneck:    "Decision Bottleneck",
	CapacityConstraint:    "Capacity Constraint",
}

// Label returns the static display label of d.
func (d Dimension) Label() string {
	if l, ok := labels[d]; ok {
		return l
	}
	return string(d)
}

// Scores holds the four dimension scores, each within [0,100].
type Scores struct {
	FounderCentralization int `json:"founderCentralization"`
	StructuralFragility   int `json:"structuralFragility"`
	DecisionBottleneck    int `json:"decisionBottleneck"`
	CapacityConstraint    int `json:"capacityConstraint"`
}

// Get returns the score of d.
func (s Scores) Get(d Dimension) int {
	switch d {
	case FounderCentralization:
		return s.FounderCentralization
	case StructuralFragility:
		return s.StructuralFragility
	case DecisionBottleneck:
		return s.DecisionBottleneck
	case CapacityConstraint:
		return s.CapacityConstraint
	default:
		return 0
	}
}

func (s *Scores) add(d Dimension, n int) {
	switch d {
	case FounderCentralization:
		s.FounderCentralization += n
	case StructuralFragility:
		s.StructuralFragility += n
	case DecisionBottleneck:
		s.DecisionBottleneck += n
	case CapacityConstraint:
		s.CapacityConstraint += n
	}
}

// Ranked is one dimension in a ranking.
type Ranked struct {
	Type  Dimension `json:"type"`
	Label string    `json:"label"`
	Score int       `json:"score"`
}

// Contribution records one fired table entry, for explanations.
type Contribution struct {
	Source string         `json:"source"`
	Option string         `json:"option,omitempty"`
	Deltas map[string]int `json:"deltas"`
}

// Score computes the dimension scores. Only exact canonical answers
// contribute; compound boosts apply on top, then every dimension is clamped
// to [0,100].
func Score(r intake.Response) Scores {
	s, _ := score(r, false)
	return s
}

// Explain returns the scores along with every contribution that fired.
func Explain(r intake.Response) (Scores, []Contribution) {
	return score(r, true)
}

func score(r intake.Response, explain bool) (Scores, []Contribution) {
	r = intake.Normalize(r)
	var s Scores
	var fired []Contribution
	for _, c := range contributions {
		if !r.Is(c.question, c.option) {
			continue
		}
		for _, d := range c.deltas {
			s.add(d.dim, d.points)
		}
		if explain {
			fired = append(fired, Contribution{Source: c.question, Option: c.option, Deltas: deltaMap(c.deltas)})
		}
	}
	for _, b := range boosts {
		if !b.holds(r) {
			continue
		}
		for _, d := range b.deltas {
			s.add(d.dim, d.points)
		}
		if explain {
			fired = append(fired, Contribution{Source: "boost:" + b.name, Deltas: deltaMap(b.deltas)})
		}
	}
	s.FounderCentralization = clamp(s.FounderCentralization)
	s.StructuralFragility = clamp(s.StructuralFragility)
	s.DecisionBottleneck = clamp(s.DecisionBottleneck)
	s.CapacityConstraint = clamp(s.CapacityConstraint)
	return s, fired
}

func deltaMap(ds []delta) map[string]int {
	out := make(map[string]int, len(ds))
	for _, d := range ds {
		out[string(d.dim)] += d.points
	}
	return out
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Rank orders the dimensions by score, highest first. Ties keep
// declaration order. Labels are the static ones.
func Rank(s Scores) []Ranked {
	out := make([]Ranked, 0, len(Dimensions))
	for _, d := range Dimensions {
		out = append(out, Ranked{Type: d, Label: d.Label(), Score: s.Get(d)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
