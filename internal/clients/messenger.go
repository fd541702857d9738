package clients

import (
	"context"
	"strings"

	"elvalg/config"
	"elvalg/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type Message struct {
	To      string `json:"to"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Messenger interface {
	Send(ctx context.Context, message Message) error
}

// HTTPMessenger posts messages to a transactional email/SMS provider.
type HTTPMessenger struct {
	url    string
	apiKey string
	sender string
	log    logger.Logger
}

func NewMessenger(config config.Config) *HTTPMessenger {
	return &HTTPMessenger{
		url:    strings.TrimRight(config.MessagingURL, "/"),
		apiKey: config.MessagingAPIKey,
		sender: config.MessagingSender,
		log:    logger.New("messenger"),
	}
}

type outboundMessage struct {
	From string `json:"from"`
	Message
}

func (m *HTTPMessenger) Send(ctx context.Context, message Message) error {
	log := m.log.Function("Send")

	if m.url == "" {
		return ErrNotConfigured
	}

	agent := newAgent(ctx, fiber.Post(m.url+"/messages")).
		Set(fiber.HeaderAuthorization, "Bearer "+m.apiKey).
		JSON(outboundMessage{From: m.sender, Message: message})

	if _, _, err := do(ctx, agent); err != nil {
		return log.Err("failed to send message", err, "to", message.To)
	}

	log.Info("Message sent", "to", message.To, "subject", message.Subject)
	return nil
}
