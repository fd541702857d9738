package assistantController

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"elvalg/internal/clients"
	"elvalg/internal/controllers"
	"elvalg/internal/logger"
	"elvalg/internal/pricezone"
)

const (
	maxMessageLength = 2000
	maxHistoryTurns  = 20
)

var allowedInvoiceTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
}

type AssistantController struct {
	assistant      clients.Assistant
	maxUploadBytes int
	log            logger.Logger
}

func New(assistant clients.Assistant, maxUploadBytes int) *AssistantController {
	return &AssistantController{
		assistant:      assistant,
		maxUploadBytes: maxUploadBytes,
		log:            logger.New("AssistantController"),
	}
}

type ChatRequest struct {
	History []clients.ChatTurn `json:"history"`
	Message string             `json:"message"`
}

type ChatReply struct {
	Reply string `json:"reply"`
}

type InvoiceResult struct {
	Analysis *clients.InvoiceAnalysis `json:"analysis"`
	Zone     string                   `json:"zone,omitempty"`
	Label    string                   `json:"label,omitempty"`
}

// Chat answers one visitor message. Only the most recent turns of the history
// are forwarded.
func (ac *AssistantController) Chat(ctx context.Context, request ChatRequest) (*ChatReply, error) {
	log := ac.log.Function("Chat")

	message, err := controllers.Required("message", request.Message)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(message) > maxMessageLength {
		return nil, controllers.Invalid("message", "is too long")
	}

	history := make([]clients.ChatTurn, 0, len(request.History))
	for _, turn := range request.History {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		if turn.Role != clients.RoleUser && turn.Role != clients.RoleAssistant {
			return nil, controllers.Invalid("history", "role must be user or assistant")
		}
		history = append(history, clients.ChatTurn{Role: turn.Role, Content: content})
	}
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	reply, err := ac.assistant.Chat(ctx, history, message)
	if err != nil {
		return nil, log.Err("failed to get assistant reply", err)
	}

	return &ChatReply{Reply: reply}, nil
}

// AnalyzeInvoice reads an uploaded PDF or image invoice. The file type is
// sniffed from its content, not taken from the upload headers.
func (ac *AssistantController) AnalyzeInvoice(ctx context.Context, data []byte) (*InvoiceResult, error) {
	log := ac.log.Function("AnalyzeInvoice")

	if len(data) == 0 {
		return nil, controllers.Invalid("file", "is required")
	}
	if ac.maxUploadBytes > 0 && len(data) > ac.maxUploadBytes {
		return nil, controllers.Invalid("file", "is too large")
	}

	mimeType := http.DetectContentType(data)
	if !allowedInvoiceTypes[mimeType] {
		return nil, controllers.Invalid("file", "must be a PDF, PNG or JPEG")
	}

	analysis, err := ac.assistant.AnalyzeInvoice(ctx, data, mimeType)
	if err != nil {
		return nil, log.Err("failed to analyze invoice", err, "mimeType", mimeType)
	}

	result := &InvoiceResult{Analysis: analysis}
	if postalCode, ok := pricezone.Normalize(analysis.PostalCode); ok {
		analysis.PostalCode = postalCode
		if zone := pricezone.Resolve(postalCode); zone.Resolved() {
			result.Zone = string(zone)
			result.Label = zone.Label()
		}
	}

	log.Info("Invoice analyzed", "mimeType", mimeType, "zone", result.Zone)
	return result, nil
}
