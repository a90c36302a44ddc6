package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"SwiftCart/internal/models"
	"SwiftCart/internal/newsletter"
)

// CampaignStore is the pgx implementation of newsletter.CampaignRepository.
type CampaignStore struct {
	pool *pgxpool.Pool
}

func (s *CampaignStore) Get(ctx context.Context, id string) (*models.Campaign, error) {
	var c models.Campaign

	err := s.pool.QueryRow(ctx,
		`SELECT id, subject, content, status, sent_at, sent_count, created_at
		 FROM campaigns
		 WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Subject, &c.Content, &c.Status, &c.SentAt, &c.SentCount, &c.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, newsletter.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}

	return &c, nil
}

func (s *CampaignStore) Create(ctx context.Context, c *models.Campaign) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO campaigns (id, subject, content, status, sent_count, created_at)
		 VALUES ($1, $2, $3, $4, 0, $5)`,
		c.ID, c.Subject, c.Content, c.Status, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

func (s *CampaignStore) List(ctx context.Context) ([]models.Campaign, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, subject, content, status, sent_at, sent_count, created_at
		 FROM campaigns
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(&c.ID, &c.Subject, &c.Content, &c.Status, &c.SentAt, &c.SentCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *CampaignStore) Transition(ctx context.Context, id string, from, to models.CampaignStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE campaigns SET status = $1 WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("transition campaign status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return newsletter.ErrNotFound
	}
	return nil
}

func (s *CampaignStore) Finalize(ctx context.Context, id string, status models.CampaignStatus, sentAt time.Time, sentCount int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE campaigns
		 SET status = $1,
		     sent_at = $2,
		     sent_count = $3
		 WHERE id = $4`,
		status, sentAt, sentCount, id,
	)
	if err != nil {
		return fmt.Errorf("finalize campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return newsletter.ErrNotFound
	}
	return nil
}

func (s *CampaignStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM campaigns WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return newsletter.ErrNotFound
	}
	return nil
}
