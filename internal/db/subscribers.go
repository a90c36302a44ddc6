package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"SwiftCart/internal/models"
)

// SubscriberStore is the pgx implementation of
// newsletter.SubscriberRepository.
type SubscriberStore struct {
	pool *pgxpool.Pool
}

func (s *SubscriberStore) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var sub models.Subscriber

	err := s.pool.QueryRow(ctx,
		`SELECT id, email, is_active, subscribed_at, unsubscribed_at
		 FROM subscribers
		 WHERE email = $1`,
		email,
	).Scan(&sub.ID, &sub.Email, &sub.IsActive, &sub.SubscribedAt, &sub.UnsubscribedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscriber: %w", err)
	}

	return &sub, nil
}

func (s *SubscriberStore) Create(ctx context.Context, email string) (*models.Subscriber, error) {
	sub := models.Subscriber{Email: email, IsActive: true}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO subscribers (email, is_active, subscribed_at)
		 VALUES ($1, TRUE, NOW())
		 RETURNING id, subscribed_at`,
		email,
	).Scan(&sub.ID, &sub.SubscribedAt)
	if err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}

	return &sub, nil
}

func (s *SubscriberStore) SetActive(ctx context.Context, email string, active bool) error {
	var err error
	if active {
		_, err = s.pool.Exec(ctx,
			`UPDATE subscribers
			 SET is_active = TRUE,
			     unsubscribed_at = NULL
			 WHERE email = $1`,
			email,
		)
	} else {
		_, err = s.pool.Exec(ctx,
			`UPDATE subscribers
			 SET is_active = FALSE,
			     unsubscribed_at = NOW()
			 WHERE email = $1`,
			email,
		)
	}
	if err != nil {
		return fmt.Errorf("set subscriber active=%t: %w", active, err)
	}
	return nil
}

func (s *SubscriberStore) List(ctx context.Context, activeOnly bool, limit, offset int) ([]models.Subscriber, int, error) {
	where := ""
	if activeOnly {
		where = "WHERE is_active"
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM subscribers %s`, where),
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count subscribers: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(
			`SELECT id, email, is_active, subscribed_at, unsubscribed_at
			 FROM subscribers %s
			 ORDER BY subscribed_at DESC
			 LIMIT $1 OFFSET $2`, where),
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	subs, err := scanSubscribers(rows)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (s *SubscriberStore) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscribers WHERE is_active`,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active subscribers: %w", err)
	}
	return n, nil
}

func (s *SubscriberStore) SnapshotActive(ctx context.Context) ([]models.Subscriber, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, email, is_active, subscribed_at, unsubscribed_at
		 FROM subscribers
		 WHERE is_active
		 ORDER BY subscribed_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot active subscribers: %w", err)
	}
	defer rows.Close()

	return scanSubscribers(rows)
}

func scanSubscribers(rows pgx.Rows) ([]models.Subscriber, error) {
	var subs []models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.IsActive, &sub.SubscribedAt, &sub.UnsubscribedAt); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribers: %w", err)
	}
	return subs, nil
}
