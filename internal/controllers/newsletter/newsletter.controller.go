package newsletterController

import (
	"context"
	"errors"
	"strings"

	"elvalg/internal/clients"
	"elvalg/internal/controllers"
	"elvalg/internal/logger"
	. "elvalg/internal/models"
	"elvalg/internal/repositories"
)

type NewsletterController struct {
	subscriberRepo repositories.SubscriberRepository
	newsletter     clients.Newsletter
	log            logger.Logger
}

func New(
	subscriberRepo repositories.SubscriberRepository,
	newsletter clients.Newsletter,
) *NewsletterController {
	return &NewsletterController{
		subscriberRepo: subscriberRepo,
		newsletter:     newsletter,
		log:            logger.New("NewsletterController"),
	}
}

// Subscribe records the address locally and forwards it to the list provider.
// Subscribing twice is not an error. A provider failure leaves the local row
// unsynced instead of failing the visitor's request.
func (nc *NewsletterController) Subscribe(ctx context.Context, email, source string) (*NewsletterSubscriber, error) {
	log := nc.log.Function("Subscribe")

	email, err := controllers.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	subscriber, err := nc.subscriberRepo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		subscriber = &NewsletterSubscriber{Email: email, Source: strings.TrimSpace(source)}
		if err := nc.subscriberRepo.Create(ctx, subscriber); err != nil {
			return nil, log.Err("failed to store subscriber", err)
		}
	case err != nil:
		return nil, log.Err("failed to look up subscriber", err)
	case subscriber.ProviderSync:
		return subscriber, nil
	}

	err = nc.newsletter.Subscribe(ctx, email)
	if errors.Is(err, clients.ErrNotConfigured) {
		log.Debug("Newsletter provider not configured, keeping local subscriber only")
		return subscriber, nil
	}
	if err != nil {
		log.Warn("failed to sync subscriber with provider", "subscriberID", subscriber.ID, "error", err)
		return subscriber, nil
	}

	if err := nc.subscriberRepo.MarkSynced(ctx, subscriber.ID); err != nil {
		log.Warn("failed to mark subscriber synced", "subscriberID", subscriber.ID, "error", err)
		return subscriber, nil
	}
	subscriber.ProviderSync = true

	return subscriber, nil
}
