package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	appanalysis "github.com/A-bd-1999/medical-agent/internal/application/analysis"
	appchatbot "github.com/A-bd-1999/medical-agent/internal/application/chatbot"
	domain "github.com/A-bd-1999/medical-agent/internal/domain/analysis"
	"github.com/A-bd-1999/medical-agent/internal/domain/analysislog"
	"github.com/A-bd-1999/medical-agent/internal/domain/chatbot"
	"github.com/A-bd-1999/medical-agent/internal/domain/patients"
)

// ===========================================================================
// Fakes
// ===========================================================================

type memPatients struct {
	rows []*patients.Patient
}

func (m *memPatients) Insert(_ context.Context, p *patients.Patient) (int64, error) {
	cp := *p
	cp.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, &cp)
	return cp.ID, nil
}

func (m *memPatients) GetByID(_ context.Context, id int64) (*patients.Patient, error) {
	for _, p := range m.rows {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, patients.ErrNotFound
}

func (m *memPatients) ListAll(_ context.Context, _ int) ([]*patients.Patient, error) {
	return m.rows, nil
}

func (m *memPatients) GetLast(_ context.Context) (*patients.Patient, error) {
	if len(m.rows) == 0 {
		return nil, patients.ErrNotFound
	}
	return m.rows[len(m.rows)-1], nil
}

func (m *memPatients) ListByExamType(_ context.Context, exam domain.ExamType, _ int) ([]*patients.Patient, error) {
	var out []*patients.Patient
	for _, p := range m.rows {
		if p.ExamType == exam {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPatients) Count(_ context.Context, exam *domain.ExamType) (int64, error) {
	if exam == nil {
		return int64(len(m.rows)), nil
	}
	var n int64
	for _, p := range m.rows {
		if p.ExamType == *exam {
			n++
		}
	}
	return n, nil
}

type memLogs struct {
	entries []*analysislog.Entry
}

func (m *memLogs) Save(_ context.Context, e *analysislog.Entry) error {
	e.ID = int64(len(m.entries) + 1)
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *memLogs) LinkPatient(context.Context, int64, int64) error { return nil }

func (m *memLogs) ListRecent(_ context.Context, _ int) ([]*analysislog.Entry, error) {
	return m.entries, nil
}

type stubPredictor struct{}

func (stubPredictor) Predict(context.Context, string) (domain.RawOutput, error) {
	return domain.RawMap{"finding": "Lungs appear clear.", "confidence": 0.88, "model": "lung_model_v1.0"}, nil
}

type memImages struct{}

func (memImages) Upload(_ context.Context, r io.Reader, _ int64, _ string) (string, error) {
	io.Copy(io.Discard, r)
	return "http://store/xrays/test.png", nil
}

func newTestRouter(t *testing.T) (http.Handler, *memPatients, *memLogs) {
	t.Helper()
	pats := &memPatients{}
	logs := &memLogs{}
	registry := domain.Registry{
		domain.ExamBone:    stubPredictor{},
		domain.ExamLung:    stubPredictor{},
		domain.ExamDisease: stubPredictor{},
	}
	analysisSvc := &appanalysis.Service{
		Registry: registry,
		Patients: pats,
		Logs:     logs,
		Clock:    fixedClock{},
		Logger:   zerolog.Nop(),
	}
	chatbotSvc := &appchatbot.Service{
		Patients: pats,
		Glossary: chatbot.DefaultGlossary(),
		Logger:   zerolog.Nop(),
	}
	return NewRouter(analysisSvc, chatbotSvc, memImages{}), pats, logs
}

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }

func analyseRequest(t *testing.T, name, age, examType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("patient_name", name)
	mw.WriteField("age", age)
	mw.WriteField("exam_type", examType)
	fw, err := mw.CreateFormFile("image", "xray.png")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	fw.Write([]byte("fake png bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/analyse", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// ===========================================================================
// Tests
// ===========================================================================

func TestAnalyseEndpoint(t *testing.T) {
	router, pats, logs := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, analyseRequest(t, "Ahmad Khaled", "52", "lung"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var p patients.Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if p.ID != 1 || p.Result.Finding == "" || p.ImageRef == "" {
		t.Errorf("unexpected patient payload: %+v", p)
	}
	if len(pats.rows) != 1 || len(logs.entries) != 1 {
		t.Errorf("expected one patient and one log entry, got %d/%d", len(pats.rows), len(logs.entries))
	}
}

func TestAnalyseEndpoint_Validation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	cases := []*http.Request{
		analyseRequest(t, "", "52", "lung"),
		analyseRequest(t, "A", "abc", "lung"),
		analyseRequest(t, "A", "150", "lung"),
	}
	for _, req := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	}
}

func TestAnalyseEndpoint_UnsupportedExamType(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, analyseRequest(t, "A", "30", "heart"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAnalyseEndpoint_DisallowedExtension(t *testing.T) {
	router, _, _ := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("patient_name", "A")
	mw.WriteField("age", "30")
	mw.WriteField("exam_type", "lung")
	fw, _ := mw.CreateFormFile("image", "xray.exe")
	fw.Write([]byte("nope"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/analyse", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for .exe upload, got %d", rec.Code)
	}
}

func TestGetPatientEndpoint_NotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/patients/999", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListPatientsEndpoint(t *testing.T) {
	router, pats, _ := newTestRouter(t)
	pats.Insert(context.Background(), &patients.Patient{Name: "A", Age: 30, ExamType: domain.ExamLung})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/patients", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []patients.Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected one patient, got %d", len(list))
	}
}

func TestChatbotEndpoint(t *testing.T) {
	router, pats, _ := newTestRouter(t)
	pats.Insert(context.Background(), &patients.Patient{Name: "A", Age: 30, ExamType: domain.ExamLung})

	body := strings.NewReader(`{"question":"count patients"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chatbot", body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp chatbot.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != chatbot.StatusOK {
		t.Errorf("expected ok status, got %+v", resp)
	}
}

func TestChatbotEndpoint_EmptyQuestion(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chatbot", strings.NewReader(`{"question":" "}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLogsEndpoint(t *testing.T) {
	router, _, logs := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, analyseRequest(t, "A", "30", "bone"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed analyse failed: %d", rec.Code)
	}
	if len(logs.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(logs.entries))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var entries []analysislog.Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != analysislog.StatusSuccess {
		t.Errorf("unexpected log listing: %+v", entries)
	}
}

func TestModelsEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		ExamTypes []string `json:"exam_types"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.ExamTypes) != 3 {
		t.Errorf("expected three registered exam types, got %v", body.ExamTypes)
	}
}
