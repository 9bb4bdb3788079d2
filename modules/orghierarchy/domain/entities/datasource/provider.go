package datasource

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/iota-uz/orghierarchy/pkg/configuration"
)

// Provider supplies data source records to the core. Hosting
// applications may substitute their own implementation (for example one
// with a different primary-key scheme) by registering it under a name
// and selecting that name through ORG_DATA_SOURCE_PROVIDER.
type Provider interface {
	GetByID(ctx context.Context, id string) (DataSource, error)
	All(ctx context.Context) ([]DataSource, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Provider{}
)

// Register makes a provider selectable by name. Last registration for a
// name wins, so tests may override the default.
func Register(name string, p Provider) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = p
}

// Use resolves the configured provider. Call it once at process start
// and inject the result; the core never performs lazy lookups.
func Use(conf *configuration.Configuration) (Provider, error) {
	return Resolve(conf.Org.DataSourceProvider)
}

// Resolve returns the provider registered under name.
func Resolve(name string) (Provider, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("datasource: no provider registered under %q (have %v)", name, registeredNames())
	}
	return p, nil
}

func registeredNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
