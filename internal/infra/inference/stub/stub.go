// Package stub provides offline predictors used when no real model is
// configured for an exam type. Findings mirror the canned outputs of the
// project's original placeholder models.
package stub

import (
	"context"
	"fmt"
	"os"

	domain "github.com/A-bd-1999/medical-agent/internal/domain/analysis"
)

type canned struct {
	finding    string
	confidence float64
	model      string
	version    string
}

var cannedByExam = map[domain.ExamType]canned{
	domain.ExamBone: {
		finding:    "No fracture or bone density abnormality detected (stub).",
		confidence: 0.82,
		model:      "bone_model",
		version:    "v1.0",
	},
	domain.ExamLung: {
		finding:    "Lungs appear clear. No significant opacity (stub).",
		confidence: 0.88,
		model:      "lung_model",
		version:    "v1.0",
	},
	domain.ExamDisease: {
		finding:    "No disease pattern detected with high confidence (stub).",
		confidence: 0.79,
		model:      "disease_model",
		version:    "v1.0",
	},
}

// Predictor returns a canned finding for its exam type. When a weights path
// is configured but the artifact is missing it fails closed: a structured
// "model unavailable" result with zero confidence, never an error, so the
// dispatcher's audit entry is always produced.
type Predictor struct {
	exam        domain.ExamType
	weightsPath string
}

func NewPredictor(exam domain.ExamType, weightsPath string) *Predictor {
	return &Predictor{exam: exam, weightsPath: weightsPath}
}

func (p *Predictor) Predict(_ context.Context, imageRef string) (domain.RawOutput, error) {
	c, ok := cannedByExam[p.exam]
	if !ok {
		return nil, fmt.Errorf("no stub output for exam type %q", p.exam)
	}
	if p.weightsPath != "" {
		if _, err := os.Stat(p.weightsPath); err != nil {
			zero := 0.0
			return domain.RawFields{
				Finding:      fmt.Sprintf("%s model unavailable: weights artifact missing", p.exam),
				Confidence:   &zero,
				ModelName:    c.model,
				ModelVersion: c.version,
			}, nil
		}
	}
	if imageRef == "" {
		return nil, fmt.Errorf("image reference is empty")
	}
	conf := c.confidence
	return domain.RawFields{
		Finding:      c.finding,
		Confidence:   &conf,
		ModelName:    c.model,
		ModelVersion: c.version,
	}, nil
}
