package chatbot

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	domain "github.com/A-bd-1999/medical-agent/internal/domain/analysis"
	"github.com/A-bd-1999/medical-agent/internal/domain/chatbot"
	"github.com/A-bd-1999/medical-agent/internal/domain/patients"
)

// DefaultListLimit caps list answers so a chat reply stays readable.
const DefaultListLimit = 50

// Service is the chatbot engine: parse the question, execute the intent
// against the record store, and format the structured response.
type Service struct {
	Patients patients.Repository
	Glossary chatbot.Glossary
	Logger   zerolog.Logger
}

// Answer resolves one free-text question. NotFound and Unrecognized are
// normal outcomes carried in the response status; only store failures are
// returned as errors.
func (s *Service) Answer(ctx context.Context, question string) (chatbot.Response, error) {
	intent := chatbot.Parse(question)

	switch intent.Kind {
	case chatbot.KindListAll:
		rows, err := s.Patients.ListAll(ctx, DefaultListLimit)
		if err != nil {
			return chatbot.Response{}, storeErr(err)
		}
		return ok(intent, FormatPatients(rows), rows), nil

	case chatbot.KindGetByID:
		p, err := s.Patients.GetByID(ctx, intent.PatientID)
		if errors.Is(err, patients.ErrNotFound) {
			return chatbot.Response{
				Status:  chatbot.StatusNotFound,
				Intent:  intent.Kind,
				Message: fmt.Sprintf("No patient found with ID %d.", intent.PatientID),
			}, nil
		}
		if err != nil {
			return chatbot.Response{}, storeErr(err)
		}
		return ok(intent, FormatPatient(p), p), nil

	case chatbot.KindGetLast:
		p, err := s.Patients.GetLast(ctx)
		if errors.Is(err, patients.ErrNotFound) {
			return chatbot.Response{
				Status:  chatbot.StatusNotFound,
				Intent:  intent.Kind,
				Message: "No analysis records yet.",
			}, nil
		}
		if err != nil {
			return chatbot.Response{}, storeErr(err)
		}
		return ok(intent, FormatPatient(p), p), nil

	case chatbot.KindListByExamType:
		rows, err := s.Patients.ListByExamType(ctx, intent.ExamType, DefaultListLimit)
		if err != nil {
			return chatbot.Response{}, storeErr(err)
		}
		return ok(intent, FormatPatients(rows), rows), nil

	case chatbot.KindCount:
		var filter *domain.ExamType
		if intent.HasFilter {
			exam := intent.ExamType
			filter = &exam
		}
		n, err := s.Patients.Count(ctx, filter)
		if err != nil {
			return chatbot.Response{}, storeErr(err)
		}
		return ok(intent, FormatCount(n, filter), n), nil

	case chatbot.KindDefineTerm:
		if def, found := s.Glossary.Lookup(intent.Term); found {
			return ok(intent, def, nil), nil
		}
		return chatbot.Response{
			Status:  chatbot.StatusNotFound,
			Intent:  intent.Kind,
			Message: fmt.Sprintf("No definition available for %q.", intent.Term),
		}, nil

	default:
		// Not an operational failure, just a question outside the grammar.
		s.Logger.Debug().Str("question", intent.Original).Msg("unrecognized question")
		return chatbot.Response{
			Status:  chatbot.StatusUnrecognized,
			Intent:  chatbot.KindUnrecognized,
			Message: HelpMessage,
		}, nil
	}
}

func ok(intent chatbot.Intent, message string, data any) chatbot.Response {
	return chatbot.Response{
		Status:  chatbot.StatusOK,
		Intent:  intent.Kind,
		Message: message,
		Data:    data,
	}
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
