package newsletter

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"SwiftCart/internal/models"
)

// SubscribeResult distinguishes a first-time subscription from the
// reactivation of a previously unsubscribed address.
type SubscribeResult int

const (
	Subscribed SubscribeResult = iota
	Resubscribed
)

const (
	welcomeSubject = "Welcome to the SwiftCart newsletter"
	welcomeBody    = `<p>Thanks for subscribing to the SwiftCart newsletter!</p>
<p>You'll hear from us about new products, deals and store news.
You can unsubscribe at any time from your account page.</p>`
)

// Registry tracks newsletter subscribers and their active/inactive state.
type Registry struct {
	repo       SubscriberRepository
	dispatcher Dispatcher
	log        *zap.Logger
}

func NewRegistry(repo SubscriberRepository, dispatcher Dispatcher, log *zap.Logger) *Registry {
	return &Registry{
		repo:       repo,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Subscribe registers an address. A brand-new address gets an active
// record and a best-effort welcome email; a previously unsubscribed one
// is reactivated and reported as Resubscribed; an already active one
// fails with ErrAlreadySubscribed.
func (r *Registry) Subscribe(ctx context.Context, email string) (SubscribeResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return 0, err
	}

	sub, err := r.repo.GetByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("lookup subscriber: %w", err)
	}

	if sub == nil {
		if _, err := r.repo.Create(ctx, email); err != nil {
			return 0, fmt.Errorf("create subscriber: %w", err)
		}
		r.sendWelcome(ctx, email)
		return Subscribed, nil
	}

	if sub.IsActive {
		return 0, ErrAlreadySubscribed
	}

	if err := r.repo.SetActive(ctx, email, true); err != nil {
		return 0, fmt.Errorf("reactivate subscriber: %w", err)
	}
	return Resubscribed, nil
}

// Unsubscribe deactivates the address and stamps unsubscribed_at.
// Idempotent: unsubscribing an unknown or already inactive address is
// not an error.
func (r *Registry) Unsubscribe(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	sub, err := r.repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup subscriber: %w", err)
	}
	if sub == nil || !sub.IsActive {
		return nil
	}

	if err := r.repo.SetActive(ctx, email, false); err != nil {
		return fmt.Errorf("deactivate subscriber: %w", err)
	}
	return nil
}

// ListSubscribers returns one page of subscribers plus the total count.
func (r *Registry) ListSubscribers(ctx context.Context, page, size int, activeOnly bool) ([]models.Subscriber, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 50
	}
	return r.repo.List(ctx, activeOnly, size, (page-1)*size)
}

// CountActive returns the current number of active subscribers.
func (r *Registry) CountActive(ctx context.Context) (int, error) {
	return r.repo.CountActive(ctx)
}

// sendWelcome is best effort: a welcome that cannot be delivered must not
// fail the subscription itself.
func (r *Registry) sendWelcome(ctx context.Context, email string) {
	if err := r.dispatcher.Dispatch(ctx, email, welcomeSubject, welcomeBody); err != nil {
		r.log.Warn("welcome email failed",
			zap.String("email", email),
			zap.Error(err),
		)
	}
}

// normalizeEmail reduces the input to the bare lowercased address. The
// parser accepts RFC 5322 display-name forms ("Jane <jane@shop.test>"),
// so the canonical identity is the parsed address, never the raw input.
func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}
