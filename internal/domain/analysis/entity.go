package analysis

import (
	"fmt"
	"strings"
)

// ExamType enum — one inference model per exam type
type ExamType string

const (
	ExamBone    ExamType = "bone"
	ExamLung    ExamType = "lung"
	ExamDisease ExamType = "disease"
)

// ExamTypes is the fixed set of supported exam types.
var ExamTypes = []ExamType{ExamBone, ExamLung, ExamDisease}

// ParseExamType normalizes user input ("Lung", "bones", " LUNG ") to an ExamType.
func ParseExamType(s string) (ExamType, error) {
	v := strings.TrimSpace(strings.ToLower(s))
	v = strings.TrimSuffix(v, "s")
	switch ExamType(v) {
	case ExamBone, ExamLung, ExamDisease:
		return ExamType(v), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedExamType, s)
}

func (e ExamType) Valid() bool {
	switch e {
	case ExamBone, ExamLung, ExamDisease:
		return true
	}
	return false
}

// Result is the canonical analysis record produced by Normalize.
// Immutable once created.
type Result struct {
	Finding      string   `json:"finding"`
	Confidence   float64  `json:"confidence"`
	ModelName    string   `json:"model_name"`
	ModelVersion string   `json:"model_version"`
	Warnings     []string `json:"warnings,omitempty"`
}
