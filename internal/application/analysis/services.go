package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/A-bd-1999/medical-agent/internal/application"
	domain "github.com/A-bd-1999/medical-agent/internal/domain/analysis"
	"github.com/A-bd-1999/medical-agent/internal/domain/analysislog"
	"github.com/A-bd-1999/medical-agent/internal/domain/patients"
)

// Service implements the dispatch use-cases: route an X-ray to the model
// registered for its exam type, normalize the output, and persist the result.
// Safe for concurrent use: the registry is read-only after startup and all
// state lives in the repositories.
type Service struct {
	Registry domain.Registry
	Patients patients.Repository
	Logs     analysislog.Repository
	Clock    application.Clock
	Logger   zerolog.Logger
}

// AnalyseCommand carries one full analysis request.
type AnalyseCommand struct {
	PatientName string
	Age         int
	ExamType    string
	ImageRef    string
}

// Dispatch routes the image to the predictor for the exam type and returns
// the canonical result plus the id of the audit entry.
//
// Exactly one analysislog.Entry is written per attempt — success or error —
// before any failure is surfaced to the caller. No retries: those belong to
// the caller.
func (s *Service) Dispatch(ctx context.Context, imageRef string, exam domain.ExamType) (domain.Result, int64, error) {
	res, derr := s.dispatch(ctx, imageRef, exam)

	entry := &analysislog.Entry{
		ExamType:  exam,
		Status:    analysislog.StatusSuccess,
		Message:   res.Finding,
		CreatedAt: s.Clock.Now(),
	}
	if derr != nil {
		entry.Status = analysislog.StatusError
		entry.Message = derr.Error()
	}
	if err := s.Logs.Save(ctx, entry); err != nil {
		// The audit entry is non-negotiable; a store that cannot take it
		// fails the whole request.
		if derr != nil {
			return domain.Result{}, 0, fmt.Errorf("%w: audit write failed after dispatch error (%v): %v", domain.ErrStoreUnavailable, derr, err)
		}
		return domain.Result{}, 0, fmt.Errorf("%w: audit write failed: %v", domain.ErrStoreUnavailable, err)
	}

	if derr != nil {
		s.Logger.Error().Err(derr).Str("exam_type", string(exam)).Str("image_ref", imageRef).Msg("dispatch failed")
		return domain.Result{}, entry.ID, derr
	}
	return res, entry.ID, nil
}

// dispatch is the registry lookup + predict + normalize pipeline, with no
// side effects of its own.
func (s *Service) dispatch(ctx context.Context, imageRef string, exam domain.ExamType) (domain.Result, error) {
	if !exam.Valid() {
		return domain.Result{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedExamType, exam)
	}
	predictor, ok := s.Registry.Lookup(exam)
	if !ok {
		return domain.Result{}, fmt.Errorf("%w: no model registered for %q", domain.ErrUnsupportedExamType, exam)
	}

	raw, err := predictor.Predict(ctx, imageRef)
	if err != nil {
		return domain.Result{}, &domain.InferenceError{Exam: exam, Err: err}
	}

	res, err := domain.Normalize(raw, exam)
	if err != nil {
		return domain.Result{}, err
	}
	return res, nil
}

// Analyse runs the full use-case: validate the request, dispatch, persist the
// patient record, and link the audit entry to the new patient id. The audit
// entry written by Dispatch stands whether or not patient persistence
// succeeds.
func (s *Service) Analyse(ctx context.Context, cmd AnalyseCommand) (*patients.Patient, error) {
	name := strings.TrimSpace(cmd.PatientName)
	if name == "" {
		return nil, fmt.Errorf("patient name is required")
	}
	if cmd.Age < 0 || cmd.Age > 120 {
		return nil, fmt.Errorf("age must be between 0 and 120")
	}
	exam, err := domain.ParseExamType(cmd.ExamType)
	if err != nil {
		return nil, err
	}

	res, logID, err := s.Dispatch(ctx, cmd.ImageRef, exam)
	if err != nil {
		return nil, err
	}

	p := &patients.Patient{
		Name:      name,
		Age:       cmd.Age,
		ExamType:  exam,
		Result:    res,
		ImageRef:  cmd.ImageRef,
		CreatedAt: s.Clock.Now(),
	}
	id, err := s.Patients.Insert(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	p.ID = id

	// Weak reference only; the entry is already complete without it.
	if err := s.Logs.LinkPatient(ctx, logID, id); err != nil {
		s.Logger.Warn().Err(err).Int64("log_id", logID).Int64("patient_id", id).Msg("could not link audit entry to patient")
	}

	s.Logger.Info().Int64("patient_id", id).Str("exam_type", string(exam)).Str("finding", res.Finding).Msg("analysis complete")
	return p, nil
}

// AvailableModels returns the exam types that have a registered predictor.
func (s *Service) AvailableModels() []domain.ExamType {
	return s.Registry.Available()
}

// Get fetches one patient by id.
func (s *Service) Get(ctx context.Context, id int64) (*patients.Patient, error) {
	return s.Patients.GetByID(ctx, id)
}

// List fetches patients ordered by creation time ascending.
func (s *Service) List(ctx context.Context, limit int) ([]*patients.Patient, error) {
	return s.Patients.ListAll(ctx, limit)
}

// RecentLogs fetches the latest dispatch audit entries.
func (s *Service) RecentLogs(ctx context.Context, limit int) ([]*analysislog.Entry, error) {
	return s.Logs.ListRecent(ctx, limit)
}
