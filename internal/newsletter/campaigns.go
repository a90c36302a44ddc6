package newsletter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"SwiftCart/internal/metrics"
	"SwiftCart/internal/models"
)

// Engine owns the campaign lifecycle and the bulk-send fan-out.
type Engine struct {
	campaigns   CampaignRepository
	subscribers SubscriberRepository
	dispatcher  Dispatcher
	log         *zap.Logger
}

func NewEngine(campaigns CampaignRepository, subscribers SubscriberRepository, dispatcher Dispatcher, log *zap.Logger) *Engine {
	return &Engine{
		campaigns:   campaigns,
		subscribers: subscribers,
		dispatcher:  dispatcher,
		log:         log,
	}
}

// Create validates and persists a new campaign in draft status.
func (e *Engine) Create(ctx context.Context, subject, content string) (*models.Campaign, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, errors.New("subject is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("content is required")
	}

	c := &models.Campaign{
		ID:        uuid.New().String(),
		Subject:   subject,
		Content:   content,
		Status:    models.CampaignDraft,
		CreatedAt: time.Now().UTC(),
	}

	if err := e.campaigns.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return c, nil
}

// Get returns a single campaign.
func (e *Engine) Get(ctx context.Context, id string) (*models.Campaign, error) {
	return e.campaigns.Get(ctx, id)
}

// List returns all campaigns, newest first.
func (e *Engine) List(ctx context.Context) ([]models.Campaign, error) {
	return e.campaigns.List(ctx)
}

// Delete removes a campaign. Permitted in any status; there is no undo.
func (e *Engine) Delete(ctx context.Context, id string) error {
	return e.campaigns.Delete(ctx, id)
}

// SendReport summarizes a completed campaign send.
type SendReport struct {
	SentCount  int
	Recipients int
}

// Send delivers the campaign to every active subscriber, one at a time.
//
// Recipients are processed strictly sequentially: one in-flight message
// bounds the load on the mail relay no matter how large the list is. A
// failure for one recipient is logged and excluded from the sent count;
// it never stops the loop. SentCount therefore counts successful
// dispatches only, which under queued delivery means accepted for
// delivery rather than delivered.
func (e *Engine) Send(ctx context.Context, id string) (*SendReport, error) {
	c, err := e.campaigns.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CampaignDraft {
		return nil, ErrAlreadySent
	}

	// Point of no return: from here the campaign is visibly "sending".
	// A crash before the terminal write below leaves it stuck there;
	// operators reconcile manually. The guarded transition means exactly
	// one of two concurrent senders gets past this line.
	if err := e.campaigns.Transition(ctx, id, models.CampaignDraft, models.CampaignSending); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAlreadySent
		}
		return nil, fmt.Errorf("transition to sending: %w", err)
	}

	recipients, err := e.subscribers.SnapshotActive(ctx)
	if err != nil {
		e.fail(ctx, id)
		return nil, fmt.Errorf("load subscribers: %w", err)
	}

	sent := 0
	for _, sub := range recipients {
		if err := e.dispatcher.Dispatch(ctx, sub.Email, c.Subject, c.Content); err != nil {
			e.log.Warn("campaign email failed",
				zap.String("campaign_id", id),
				zap.String("email", sub.Email),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	if err := e.campaigns.Finalize(ctx, id, models.CampaignSent, time.Now().UTC(), sent); err != nil {
		return nil, fmt.Errorf("finalize campaign: %w", err)
	}
	metrics.CampaignsSent.Inc()

	e.log.Info("campaign sent",
		zap.String("campaign_id", id),
		zap.Int("recipients", len(recipients)),
		zap.Int("sent", sent),
	)

	return &SendReport{SentCount: sent, Recipients: len(recipients)}, nil
}

// fail force-terminates the campaign after a catastrophic error. Best
// effort: the original error is what the caller needs to see.
func (e *Engine) fail(ctx context.Context, id string) {
	if err := e.campaigns.Transition(ctx, id, models.CampaignSending, models.CampaignFailed); err != nil {
		e.log.Error("failed to mark campaign failed",
			zap.String("campaign_id", id),
			zap.Error(err),
		)
	}
	metrics.CampaignsFailed.Inc()
}
