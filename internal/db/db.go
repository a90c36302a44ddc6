package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the shared connection pool. Repository implementations for
// the newsletter service hang off it via Subscribers and Campaigns.
type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, conn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, conn)
	if err != nil {
		return nil, err
	}

	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) Subscribers() *SubscriberStore {
	return &SubscriberStore{pool: s.Pool}
}

func (s *Store) Campaigns() *CampaignStore {
	return &CampaignStore{pool: s.Pool}
}
