package composables

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/permission"
	"github.com/iota-uz/orghierarchy/pkg/constants"
)

var (
	ErrNoUser = errors.New("no user found in context")
)

// WithUser attaches the acting user to the context.
func WithUser(ctx context.Context, user organization.User) context.Context {
	return context.WithValue(ctx, constants.UserKey, user)
}

// UseUser returns the acting user from the context.
func UseUser(ctx context.Context) (organization.User, error) {
	user, ok := ctx.Value(constants.UserKey).(organization.User)
	if !ok {
		return nil, ErrNoUser
	}
	return user, nil
}

// WithPermissionCache attaches a request-scoped permission cache.
func WithPermissionCache(ctx context.Context, cache *permission.Cache) context.Context {
	return context.WithValue(ctx, constants.PermCacheKey, cache)
}

// UsePermissionCache returns the permission cache from the context, if
// one was attached. Resolution without a cache recomputes every call.
func UsePermissionCache(ctx context.Context) (*permission.Cache, bool) {
	cache, ok := ctx.Value(constants.PermCacheKey).(*permission.Cache)
	return cache, ok
}

// UseLogger returns the logger from the context, defaulting to the
// standard logger so call sites never need nil checks.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry)
	if !ok {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logger
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}
