package stub

import (
	"context"
	"path/filepath"
	"testing"

	domain "github.com/A-bd-1999/medical-agent/internal/domain/analysis"
)

func TestPredict_CannedOutputNormalizes(t *testing.T) {
	for _, exam := range domain.ExamTypes {
		p := NewPredictor(exam, "")
		raw, err := p.Predict(context.Background(), "http://store/x.png")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", exam, err)
		}
		res, err := domain.Normalize(raw, exam)
		if err != nil {
			t.Fatalf("%s: stub output must normalize: %v", exam, err)
		}
		if res.Confidence <= 0 || res.Confidence > 1 {
			t.Errorf("%s: confidence out of range: %g", exam, res.Confidence)
		}
	}
}

func TestPredict_MissingWeightsFailsClosed(t *testing.T) {
	p := NewPredictor(domain.ExamLung, filepath.Join(t.TempDir(), "nope.onnx"))

	raw, err := p.Predict(context.Background(), "http://store/x.png")
	if err != nil {
		t.Fatalf("missing weights must not error: %v", err)
	}
	res, err := domain.Normalize(raw, domain.ExamLung)
	if err != nil {
		t.Fatalf("unavailable result must normalize: %v", err)
	}
	if res.Confidence != 0 {
		t.Errorf("unavailable result should carry 0 confidence, got %g", res.Confidence)
	}
}

func TestPredict_EmptyImageRef(t *testing.T) {
	p := NewPredictor(domain.ExamBone, "")
	if _, err := p.Predict(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty image ref")
	}
}
