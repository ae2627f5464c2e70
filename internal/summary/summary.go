// Package summary computes the aggregate statistics shown next to the
// overlay.
package summary

import (
	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/overlay"
)

// Grade is the overall verdict for a page.
type Grade string

const (
	GradeExcellent        Grade = "Excellent"
	GradeNeedsImprovement Grade = "NeedsImprovement"
	GradePoor             Grade = "Poor"
)

// Summary aggregates tap-success rates over every detected element.
type Summary struct {
	Total   int     `yaml:"total"   json:"total"`
	AvgRate float64 `yaml:"avgRate" json:"avgRate"`
	Issues  int     `yaml:"issues"  json:"issues"` // elements rated poor
	Tier    Grade   `yaml:"tier"    json:"tier"`

	// Per-tier element counts.
	Good             int `yaml:"good"             json:"good"`
	NeedsImprovement int `yaml:"needsImprovement" json:"needsImprovement"`
	Poor             int `yaml:"poor"             json:"poor"`

	// Excluded counts near-full-viewport elements the overlay does not draw.
	// They are still part of every other statistic.
	Excluded int `yaml:"excluded" json:"excluded"`
}

// GradeFor maps an average rate to a grade, using the same thresholds as
// element classification.
func GradeFor(avg float64) Grade {
	switch model.Classify(avg) {
	case model.TierGood:
		return GradeExcellent
	case model.TierNeedsImprovement:
		return GradeNeedsImprovement
	default:
		return GradePoor
	}
}

// Summarize aggregates every element, including those the overlay excludes.
// An empty input yields a zero average and the Poor grade.
func Summarize(elements []model.Element) Summary {
	s := Summary{Total: len(elements)}
	var sum float64
	for _, el := range elements {
		sum += el.TapSuccessRate
		switch model.Classify(el.TapSuccessRate) {
		case model.TierPoor:
			s.Poor++
		case model.TierNeedsImprovement:
			s.NeedsImprovement++
		case model.TierGood:
			s.Good++
		}
	}
	s.Issues = s.Poor
	if s.Total > 0 {
		s.AvgRate = sum / float64(s.Total)
	}
	s.Tier = GradeFor(s.AvgRate)
	return s
}

// ForResult summarises every element of r and also counts the elements the
// overlay leaves out. It does not need a screenshot: a result that cannot be
// drawn still has statistics. A nil result yields the empty summary.
func ForResult(r *model.AnalyzeResult) Summary {
	if r == nil {
		return Summarize(nil)
	}
	s := Summarize(r.Elements)
	for _, el := range r.Elements {
		if overlay.IsFullViewport(r.Device, el) {
			s.Excluded++
		}
	}
	return s
}
