package api

import (
	"time"

	appErrors "github.com/fatali-fataliyev/budget_assistant/customErrors"
	"github.com/fatali-fataliyev/budget_assistant/internal/assistant"
	"github.com/fatali-fataliyev/budget_assistant/internal/history"
)

// REQUESTS START:
type SendMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

type ClassifyRequest struct {
	Text string `json:"text"`
}

//REQUESTS END:

//RESPONSES:

type MessageResponse struct {
	ConversationID string                   `json:"conversation_id"`
	Class          assistant.Class          `json:"class"`
	Kind           assistant.Kind           `json:"kind,omitempty"`
	Defaults       []string                 `json:"defaults,omitempty"`
	Result         *assistant.CommandResult `json:"result,omitempty"`
}

type ClassifyResponse struct {
	Class    assistant.Class   `json:"class"`
	Kind     assistant.Kind    `json:"kind,omitempty"`
	Defaults []string          `json:"defaults,omitempty"`
	Command  assistant.Command `json:"command,omitempty"`
}

type HistoryItem struct {
	Role      history.Role `json:"role"`
	Text      string       `json:"text"`
	CreatedAt string       `json:"created_at"`
}

type HistoryResponse struct {
	ConversationID string        `json:"conversation_id"`
	Messages       []HistoryItem `json:"messages"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

//RESPONSES END.

func defaultsList(d assistant.Defaults) []string {
	var out []string
	for _, flag := range []assistant.Defaults{assistant.DefaultAmount, assistant.DefaultCategory, assistant.DefaultPeriod} {
		if d.Has(flag) {
			out = append(out, flag.String())
		}
	}
	return out
}

func MessageToHttp(m history.Message) HistoryItem {
	return HistoryItem{
		Role:      m.Role,
		Text:      m.Text,
		CreatedAt: m.At.Format(time.RFC3339),
	}
}

func httpStatusFromError(err error) int {
	switch {
	case appErrors.Is(err, appErrors.ErrNotFound):
		return 404 // not found
	case appErrors.Is(err, appErrors.ErrInvalidInput):
		return 400 // bad request
	case appErrors.Is(err, appErrors.ErrAuth):
		return 401 // unauthorized
	case appErrors.Is(err, appErrors.ErrAccessDenied):
		return 403 // access denied
	case appErrors.Is(err, appErrors.ErrConflict):
		return 409 // conflict
	default:
		return 500 //internal error
	}
}
