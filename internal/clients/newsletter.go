package clients

import (
	"context"
	"errors"
	"strings"

	"elvalg/config"
	"elvalg/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type Newsletter interface {
	Subscribe(ctx context.Context, email string) error
}

// HTTPNewsletter adds contacts to a mailing list at the email-list provider.
type HTTPNewsletter struct {
	url    string
	apiKey string
	listID string
	log    logger.Logger
}

func NewNewsletter(config config.Config) *HTTPNewsletter {
	return &HTTPNewsletter{
		url:    strings.TrimRight(config.NewsletterURL, "/"),
		apiKey: config.NewsletterAPIKey,
		listID: config.NewsletterListID,
		log:    logger.New("newsletter"),
	}
}

type contactRequest struct {
	Email   string   `json:"email"`
	ListIDs []string `json:"listIds,omitempty"`
}

// Subscribe treats 409 Conflict (already on the list) as success.
func (n *HTTPNewsletter) Subscribe(ctx context.Context, email string) error {
	log := n.log.Function("Subscribe")

	if n.url == "" {
		return ErrNotConfigured
	}

	request := contactRequest{Email: email}
	if n.listID != "" {
		request.ListIDs = []string{n.listID}
	}

	agent := newAgent(ctx, fiber.Post(n.url+"/contacts")).
		Set("api-key", n.apiKey).
		JSON(request)

	_, _, err := do(ctx, agent)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Status == fiber.StatusConflict {
		log.Debug("Contact already subscribed", "email", email)
		return nil
	}
	if err != nil {
		return log.Err("failed to subscribe contact", err, "email", email)
	}

	return nil
}
