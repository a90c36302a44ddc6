package models

import "time"

// CampaignStatus enumerates the lifecycle states of a campaign.
type CampaignStatus string

const (
	CampaignDraft   CampaignStatus = "draft"
	CampaignSending CampaignStatus = "sending"
	CampaignSent    CampaignStatus = "sent"
	CampaignFailed  CampaignStatus = "failed"
)

// Campaign is a single newsletter send-out: one subject/content pair
// delivered to every active subscriber. SentCount is written exactly once,
// at the terminal transition, and counts successful dispatches only.
type Campaign struct {
	ID        string         `json:"id" db:"id"`
	Subject   string         `json:"subject" db:"subject"`
	Content   string         `json:"content" db:"content"`
	Status    CampaignStatus `json:"status" db:"status"`
	SentAt    *time.Time     `json:"sent_at,omitempty" db:"sent_at"`
	SentCount int            `json:"sent_count" db:"sent_count"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// IsTerminal returns true if the campaign is in a final state.
func (c *Campaign) IsTerminal() bool {
	return c.Status == CampaignSent || c.Status == CampaignFailed
}
