package chatbot

// ResponseStatus enum
type ResponseStatus string

const (
	StatusOK           ResponseStatus = "ok"
	StatusNotFound     ResponseStatus = "not_found"
	StatusUnrecognized ResponseStatus = "unrecognized"
)

// Response is the structured answer to one question. Resolution fills Status
// and Data; Message is the textual rendering, produced separately so the two
// stay independently testable.
type Response struct {
	Status  ResponseStatus `json:"status"`
	Intent  Kind           `json:"intent"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
}
