package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	LoggerKey    ContextKey = "logger"
	PoolKey      ContextKey = "pool"
	TxKey        ContextKey = "tx"
	UserKey      ContextKey = "user"
	PermCacheKey ContextKey = "permcache"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())
