package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/A-bd-1999/medical-agent/internal/domain/analysis"
	"github.com/A-bd-1999/medical-agent/internal/domain/chatbot"
	"github.com/A-bd-1999/medical-agent/internal/domain/patients"
)

type fakePatients struct {
	rows []*patients.Patient
	err  error
}

func (f *fakePatients) Insert(context.Context, *patients.Patient) (int64, error) {
	return 0, fmt.Errorf("not implemented")
}

func (f *fakePatients) GetByID(_ context.Context, id int64) (*patients.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.rows {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, patients.ErrNotFound
}

func (f *fakePatients) ListAll(_ context.Context, _ int) ([]*patients.Patient, error) {
	return f.rows, f.err
}

func (f *fakePatients) GetLast(_ context.Context) (*patients.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.rows) == 0 {
		return nil, patients.ErrNotFound
	}
	return f.rows[len(f.rows)-1], nil
}

func (f *fakePatients) ListByExamType(_ context.Context, exam domain.ExamType, _ int) ([]*patients.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*patients.Patient
	for _, p := range f.rows {
		if p.ExamType == exam {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePatients) Count(_ context.Context, exam *domain.ExamType) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if exam == nil {
		return int64(len(f.rows)), nil
	}
	var n int64
	for _, p := range f.rows {
		if p.ExamType == *exam {
			n++
		}
	}
	return n, nil
}

func samplePatient(id int64, name string, exam domain.ExamType) *patients.Patient {
	return &patients.Patient{
		ID:       id,
		Name:     name,
		Age:      40,
		ExamType: exam,
		Result: domain.Result{
			Finding:      "Lungs appear clear.",
			Confidence:   0.88,
			ModelName:    "lung_model",
			ModelVersion: "v1.0",
		},
		CreatedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func newService(t *testing.T, rows ...*patients.Patient) (*Service, *fakePatients) {
	t.Helper()
	repo := &fakePatients{rows: rows}
	return &Service{
		Patients: repo,
		Glossary: chatbot.DefaultGlossary(),
		Logger:   zerolog.Nop(),
	}, repo
}

func answer(t *testing.T, svc *Service, q string) chatbot.Response {
	t.Helper()
	resp, err := svc.Answer(context.Background(), q)
	if err != nil {
		t.Fatalf("Answer(%q) failed: %v", q, err)
	}
	return resp
}

func TestAnswer_CountPatients(t *testing.T) {
	svc, _ := newService(t,
		samplePatient(1, "A", domain.ExamLung),
		samplePatient(2, "B", domain.ExamBone),
		samplePatient(3, "C", domain.ExamLung),
	)

	resp := answer(t, svc, "count patients")
	if resp.Status != chatbot.StatusOK {
		t.Fatalf("expected ok, got %+v", resp)
	}
	if n, ok := resp.Data.(int64); !ok || n != 3 {
		t.Errorf("expected payload 3, got %#v", resp.Data)
	}
}

func TestAnswer_CountWithFilter(t *testing.T) {
	svc, _ := newService(t,
		samplePatient(1, "A", domain.ExamLung),
		samplePatient(2, "B", domain.ExamBone),
	)

	resp := answer(t, svc, "count patients of type lung")
	if n, ok := resp.Data.(int64); !ok || n != 1 {
		t.Errorf("expected payload 1, got %#v", resp.Data)
	}
}

func TestAnswer_GetByIDNotFound(t *testing.T) {
	svc, _ := newService(t, samplePatient(1, "A", domain.ExamLung))

	resp := answer(t, svc, "show patient 999")
	if resp.Status != chatbot.StatusNotFound {
		t.Fatalf("expected not_found, got %+v", resp)
	}
}

func TestAnswer_GetByIDFound(t *testing.T) {
	svc, _ := newService(t, samplePatient(7, "Ahmad Khaled", domain.ExamBone))

	resp := answer(t, svc, "show patient 7")
	if resp.Status != chatbot.StatusOK {
		t.Fatalf("expected ok, got %+v", resp)
	}
	p, ok := resp.Data.(*patients.Patient)
	if !ok || p.ID != 7 {
		t.Errorf("expected patient 7 in payload, got %#v", resp.Data)
	}
}

func TestAnswer_GetLastEmptyStore(t *testing.T) {
	svc, _ := newService(t)

	resp := answer(t, svc, "show last result")
	if resp.Status != chatbot.StatusNotFound {
		t.Fatalf("expected not_found on empty store, got %+v", resp)
	}
}

func TestAnswer_ListByExamType(t *testing.T) {
	svc, _ := newService(t,
		samplePatient(1, "A", domain.ExamLung),
		samplePatient(2, "B", domain.ExamBone),
	)

	resp := answer(t, svc, "list lung patients")
	rows, ok := resp.Data.([]*patients.Patient)
	if !ok || len(rows) != 1 || rows[0].ExamType != domain.ExamLung {
		t.Errorf("expected one lung patient, got %#v", resp.Data)
	}
}

func TestAnswer_DefineTerm(t *testing.T) {
	svc, _ := newService(t)

	resp := answer(t, svc, "what is pneumonia")
	if resp.Status != chatbot.StatusOK || resp.Message == "" {
		t.Fatalf("expected glossary definition, got %+v", resp)
	}

	resp = answer(t, svc, "what is xyzzy")
	if resp.Status != chatbot.StatusNotFound {
		t.Fatalf("expected no definition available, got %+v", resp)
	}
}

func TestAnswer_Unrecognized(t *testing.T) {
	svc, _ := newService(t)

	resp := answer(t, svc, "please do my taxes")
	if resp.Status != chatbot.StatusUnrecognized {
		t.Fatalf("expected unrecognized, got %+v", resp)
	}
	if resp.Message != HelpMessage {
		t.Error("unrecognized response should carry the help message")
	}
}

func TestAnswer_StoreFailureSurfaces(t *testing.T) {
	svc, repo := newService(t)
	repo.err = fmt.Errorf("connection refused")

	_, err := svc.Answer(context.Background(), "count patients")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

// ===========================================================================
// Formatting
// ===========================================================================

func TestFormatPatients_Empty(t *testing.T) {
	if got := FormatPatients(nil); got != "No records found." {
		t.Errorf("unexpected empty rendering: %q", got)
	}
}

func TestFormatPatient_IncludesCoreFields(t *testing.T) {
	msg := FormatPatient(samplePatient(5, "Ahmad Khaled", domain.ExamBone))
	for _, want := range []string{"ID: 5", "Ahmad Khaled", "BONE", "88%", "lung_model v1.0"} {
		if !strings.Contains(msg, want) {
			t.Errorf("formatted patient missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(3, nil); got != "There are 3 patient(s) on record." {
		t.Errorf("unexpected rendering: %q", got)
	}
	exam := domain.ExamBone
	if got := FormatCount(1, &exam); got != "There are 1 bone patient(s) on record." {
		t.Errorf("unexpected rendering: %q", got)
	}
}
