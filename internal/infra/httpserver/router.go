package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/A-bd-1999/medical-agent/internal/application/analysis"
	appchatbot "github.com/A-bd-1999/medical-agent/internal/application/chatbot"
	domain "github.com/A-bd-1999/medical-agent/internal/domain/analysis"
	"github.com/A-bd-1999/medical-agent/internal/domain/patients"
)

// maxUploadBytes caps X-ray uploads at 16 MB.
const maxUploadBytes = 16 << 20

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".dcm":  true,
}

type Router struct {
	analysisSvc *appanalysis.Service
	chatbotSvc  *appchatbot.Service
	images      domain.ImageStore
}

func NewRouter(analysisSvc *appanalysis.Service, chatbotSvc *appchatbot.Service, images domain.ImageStore) http.Handler {
	r := &Router{analysisSvc: analysisSvc, chatbotSvc: chatbotSvc, images: images}
	mux := chi.NewRouter()

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/analyse", r.wrap(r.handleAnalyse))
		rt.Get("/patients", r.wrap(r.handleListPatients))
		rt.Get("/patients/{id}", r.wrap(r.handleGetPatient))
		rt.Post("/chatbot", r.wrap(r.handleChatbot))
		rt.Get("/logs", r.wrap(r.handleListLogs))
		rt.Get("/models", r.wrap(r.handleModels))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks validation failures so wrap maps them to 400.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var (
				br  badRequest
				inf *domain.InferenceError
			)
			switch {
			case errors.Is(err, patients.ErrNotFound):
				writeError(w, http.StatusNotFound, err)
			case errors.Is(err, domain.ErrUnsupportedExamType), errors.As(err, &br):
				writeError(w, http.StatusBadRequest, err)
			case errors.As(err, &inf), errors.Is(err, domain.ErrUnnormalizableOutput):
				writeError(w, http.StatusBadGateway, err)
			case errors.Is(err, domain.ErrStoreUnavailable):
				writeError(w, http.StatusServiceUnavailable, err)
			default:
				writeError(w, http.StatusInternalServerError, err)
			}
		}
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

// POST /api/analyse
// multipart form: patient_name, age, exam_type, image
func (r *Router) handleAnalyse(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return badRequest{msg: fmt.Sprintf("invalid multipart form: %v", err)}
	}

	name := req.FormValue("patient_name")
	if strings.TrimSpace(name) == "" {
		return badRequest{msg: "patient_name is required"}
	}
	age, err := strconv.Atoi(req.FormValue("age"))
	if err != nil {
		return badRequest{msg: "age must be an integer"}
	}
	if age < 0 || age > 120 {
		return badRequest{msg: "age must be between 0 and 120"}
	}
	examType := req.FormValue("exam_type")
	if examType == "" {
		return badRequest{msg: "exam_type is required"}
	}

	file, header, err := req.FormFile("image")
	if err != nil {
		return badRequest{msg: "no X-ray file was provided"}
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return badRequest{msg: fmt.Sprintf("file type %q not allowed, accepted: png, jpg, jpeg, dcm", ext)}
	}

	imageRef, err := r.images.Upload(req.Context(), file, header.Size, header.Filename)
	if err != nil {
		return fmt.Errorf("storing X-ray image: %w", err)
	}

	p, err := r.analysisSvc.Analyse(req.Context(), appanalysis.AnalyseCommand{
		PatientName: name,
		Age:         age,
		ExamType:    examType,
		ImageRef:    imageRef,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, p)
}

// GET /api/patients?limit=50
func (r *Router) handleListPatients(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.analysisSvc.List(req.Context(), limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*patients.Patient{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /api/patients/{id}
func (r *Router) handleGetPatient(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil || id <= 0 {
		return badRequest{msg: "patient id must be a positive integer"}
	}
	p, err := r.analysisSvc.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, p)
}

// POST /api/chatbot
// Body: {"question": "..."}
func (r *Router) handleChatbot(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{msg: fmt.Sprintf("invalid request body: %v", err)}
	}
	if strings.TrimSpace(body.Question) == "" {
		return badRequest{msg: "question is required"}
	}

	resp, err := r.chatbotSvc.Answer(req.Context(), body.Question)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

// GET /api/logs?limit=50
func (r *Router) handleListLogs(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.analysisSvc.RecentLogs(req.Context(), limit)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /api/models
func (r *Router) handleModels(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{
		"exam_types": r.analysisSvc.AvailableModels(),
	})
}
