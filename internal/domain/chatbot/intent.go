package chatbot

import (
	"github.com/A-bd-1999/medical-agent/internal/domain/analysis"
)

// Kind enum for parsed intents
type Kind string

const (
	KindListAll        Kind = "list_all"
	KindGetByID        Kind = "get_by_id"
	KindGetLast        Kind = "get_last"
	KindListByExamType Kind = "list_by_exam_type"
	KindCount          Kind = "count"
	KindDefineTerm     Kind = "define_term"
	KindUnrecognized   Kind = "unrecognized"
)

// Intent is the tagged result of parsing one question. Only the fields that
// belong to the Kind are set; Original always carries the raw question.
type Intent struct {
	Kind      Kind
	PatientID int64             // KindGetByID
	ExamType  analysis.ExamType // KindListByExamType, KindCount (when HasFilter)
	HasFilter bool              // KindCount: exam-type filter present
	Term      string            // KindDefineTerm, lower-cased and trimmed
	Original  string
}
