package analysis

import (
	"fmt"
	"strings"
)

// Fallbacks used when a model does not identify itself.
const (
	defaultFinding      = "No finding provided."
	unknownModelName    = "unknown"
	unknownModelVersion = "v0"
)

// RawOutput is the tagged variant over the shapes models are known to return.
// Every new model integration picks one of these; unknown shapes are rejected
// by Normalize rather than duck-typed.
type RawOutput interface {
	rawOutput()
}

// RawMap is a generic mapping shape (e.g. decoded JSON from an LLM or a
// TorchServe endpoint). Recognized keys: finding, confidence, model_name,
// model_version, model.
type RawMap map[string]any

// RawText is a bare free-text finding with no confidence attached.
type RawText string

// RawFields is a pre-shaped record from a model that already speaks the
// canonical vocabulary. Confidence stays a pointer so "missing" is
// distinguishable from 0.
type RawFields struct {
	Finding      string
	Confidence   *float64
	ModelName    string
	ModelVersion string
}

func (RawMap) rawOutput()    {}
func (RawText) rawOutput()   {}
func (RawFields) rawOutput() {}

// Normalize converts a raw model output into a canonical Result.
//
// Policy: confidence missing from a mapping or pre-shaped record is a hard
// failure (never silently defaulted); out-of-range numeric confidence is
// clamped to [0,1] with a warning annotation. A plain-text output carries no
// confidence by definition and normalizes to 0 with an explicit warning.
func Normalize(raw RawOutput, exam ExamType) (Result, error) {
	switch v := raw.(type) {
	case RawMap:
		return normalizeMap(v)
	case RawText:
		text := strings.TrimSpace(string(v))
		if text == "" {
			return Result{}, fmt.Errorf("%w: empty text output from %s model", ErrUnnormalizableOutput, exam)
		}
		return Result{
			Finding:      text,
			Confidence:   0,
			ModelName:    unknownModelName,
			ModelVersion: unknownModelVersion,
			Warnings:     []string{"confidence unavailable for plain-text output"},
		}, nil
	case RawFields:
		if v.Confidence == nil {
			return Result{}, fmt.Errorf("%w: missing confidence from %s model", ErrUnnormalizableOutput, exam)
		}
		res := Result{
			Finding:      v.Finding,
			ModelName:    v.ModelName,
			ModelVersion: v.ModelVersion,
		}
		if res.Finding == "" {
			res.Finding = defaultFinding
		}
		if res.ModelName == "" {
			res.ModelName = unknownModelName
		}
		if res.ModelVersion == "" {
			res.ModelVersion = unknownModelVersion
		}
		res.Confidence, res.Warnings = clampConfidence(*v.Confidence, nil)
		return res, nil
	default:
		return Result{}, fmt.Errorf("%w: unrecognized output shape %T from %s model", ErrUnnormalizableOutput, raw, exam)
	}
}

func normalizeMap(m RawMap) (Result, error) {
	conf, ok := numericValue(m["confidence"])
	if !ok {
		return Result{}, fmt.Errorf("%w: mapping output has no numeric confidence", ErrUnnormalizableOutput)
	}

	res := Result{
		Finding:      stringValue(m["finding"], defaultFinding),
		ModelName:    stringValue(m["model_name"], ""),
		ModelVersion: stringValue(m["model_version"], ""),
	}
	// Some models report a single "model" field such as "lung_model_v1.0".
	if res.ModelName == "" {
		if combined := stringValue(m["model"], ""); combined != "" {
			res.ModelName, res.ModelVersion = splitModelTag(combined, res.ModelVersion)
		}
	}
	if res.ModelName == "" {
		res.ModelName = unknownModelName
	}
	if res.ModelVersion == "" {
		res.ModelVersion = unknownModelVersion
	}
	res.Confidence, res.Warnings = clampConfidence(conf, nil)
	return res, nil
}

// clampConfidence forces confidence into [0,1] and records the adjustment.
func clampConfidence(c float64, warnings []string) (float64, []string) {
	switch {
	case c < 0:
		return 0, append(warnings, fmt.Sprintf("confidence %g below range, clamped to 0", c))
	case c > 1:
		return 1, append(warnings, fmt.Sprintf("confidence %g above range, clamped to 1", c))
	}
	return c, warnings
}

// splitModelTag splits "lung_model_v1.0" into name and version.
func splitModelTag(tag, fallbackVersion string) (string, string) {
	if i := strings.LastIndex(tag, "_v"); i > 0 {
		return tag[:i], "v" + tag[i+2:]
	}
	return tag, fallbackVersion
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
