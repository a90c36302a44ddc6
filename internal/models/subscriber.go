package models

import "time"

// Subscriber is an email address registered for newsletter delivery.
// Records are toggled between active and inactive on unsubscribe and
// resubscribe, never hard-deleted; at most one record exists per email.
type Subscriber struct {
	ID             int64      `json:"id" db:"id"`
	Email          string     `json:"email" db:"email"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	SubscribedAt   time.Time  `json:"subscribed_at" db:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty" db:"unsubscribed_at"`
}
