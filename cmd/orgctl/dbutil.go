package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iota-uz/orghierarchy/pkg/configuration"
)

func connectDB(ctx context.Context, conf *configuration.Configuration) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	return pool, nil
}

// cliUser adapts command-line flags to the user shape the services
// consume.
type cliUser struct {
	id        uuid.UUID
	superuser bool
}

func (u cliUser) ID() uuid.UUID     { return u.id }
func (u cliUser) IsSuperuser() bool { return u.superuser }
