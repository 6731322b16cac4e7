package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/0xcafe-io/iz"
	"github.com/fatali-fataliyev/budget_assistant/internal/assistant"
	"github.com/fatali-fataliyev/budget_assistant/internal/auth"
	"github.com/fatali-fataliyev/budget_assistant/internal/contextutil"
	"github.com/fatali-fataliyev/budget_assistant/logging"
	"github.com/rs/cors"
)

const TraceHeader = "X-Trace-ID"

type Api struct {
	Sessions    *assistant.Manager
	Verifier    *auth.Verifier
	StorageType string
}

func NewApi(sessions *assistant.Manager, verifier *auth.Verifier, storageType string) *Api {
	return &Api{
		Sessions:    sessions,
		Verifier:    verifier,
		StorageType: storageType,
	}
}

var corsConf = cors.New(cors.Options{
	AllowedOrigins:   []string{"*"},
	AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
	AllowedHeaders:   []string{"Authorization", "Content-Type", TraceHeader},
	AllowCredentials: true,
})

// Handler returns the routed, CORS-wrapped HTTP handler.
func (api *Api) Handler() http.Handler {
	server := http.NewServeMux()

	server.HandleFunc("GET /api/health", iz.Bind(api.HealthHandler))
	server.HandleFunc("POST /api/assistant/messages", iz.Bind(api.SendMessageHandler))                      // Run one utterance
	server.HandleFunc("POST /api/assistant/classify", iz.Bind(api.ClassifyHandler))                         // Classify and parse without executing
	server.HandleFunc("GET /api/assistant/conversations/{id}/messages", iz.Bind(api.GetConversationHandler)) // Conversation transcript
	server.HandleFunc("DELETE /api/assistant/conversations/{id}", iz.Bind(api.EndConversationHandler))      // End conversation

	return corsConf.Handler(server)
}

func (api *Api) authorize(r *iz.Request) (context.Context, error) {
	ctx := contextutil.WithTraceID(r.Context(), r.Header.Get(TraceHeader))
	if err := api.Verifier.Verify(r.Header.Get("Authorization")); err != nil {
		logging.Logger.Warnf("[TraceID=%s] | rejected request to %s: %v", contextutil.TraceIDFromContext(ctx), r.URL.Path, err)
		return ctx, err
	}
	return ctx, nil
}

func (api *Api) HealthHandler(r *iz.Request) iz.Responder {
	return iz.Respond().Status(200).JSON(HealthResponse{Status: "ok", Storage: api.StorageType})
}

func (api *Api) SendMessageHandler(r *iz.Request) iz.Responder {
	ctx, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}
	if strings.TrimSpace(req.Text) == "" {
		return iz.Respond().Status(400).Text("text is required")
	}

	session := api.Sessions.Open(req.ConversationID)
	reply, err := session.Handle(ctx, req.Text)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to handle message: %v", contextutil.TraceIDFromContext(ctx), err)
		msg := fmt.Sprintf("failed to handle message: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := MessageResponse{
		ConversationID: session.ID,
		Class:          reply.Class,
		Kind:           reply.Kind,
		Result:         reply.Result,
	}
	if reply.Parsed != nil {
		resp.Defaults = defaultsList(reply.Parsed.Defaults)
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) ClassifyHandler(r *iz.Request) iz.Responder {
	ctx, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	a := api.Sessions.Assistant()
	resp := ClassifyResponse{Class: a.Classify(req.Text)}
	if resp.Class == assistant.ClassCommand {
		parsed, err := a.Parse(ctx, req.Text)
		if err != nil {
			msg := fmt.Sprintf("failed to parse command: %v", err)
			return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
		}
		resp.Kind = parsed.Command.Kind()
		resp.Defaults = defaultsList(parsed.Defaults)
		resp.Command = parsed.Command
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) GetConversationHandler(r *iz.Request) iz.Responder {
	ctx, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	id := r.PathValue("id")
	messages, err := api.Sessions.History(ctx, id)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to load history of %s: %v", contextutil.TraceIDFromContext(ctx), id, err)
		msg := fmt.Sprintf("failed to load conversation: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := HistoryResponse{ConversationID: id, Messages: make([]HistoryItem, 0, len(messages))}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, MessageToHttp(m))
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) EndConversationHandler(r *iz.Request) iz.Responder {
	ctx, err := api.authorize(r)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return iz.Respond().Status(401).Text(msg)
	}

	if err := api.Sessions.End(ctx, r.PathValue("id")); err != nil {
		msg := fmt.Sprintf("failed to end conversation: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).Text("conversation ended")
}
