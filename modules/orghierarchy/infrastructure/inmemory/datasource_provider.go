package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/datasource"
	"github.com/iota-uz/orghierarchy/pkg/serrors"
)

var ErrDataSourceNotFound = serrors.NewError(
	"ORG_DATA_SOURCE_NOT_FOUND", "data source not found", "",
)

// DataSourceProvider is the default provider backing the pluggable
// data-source lookup; it registers itself under the "default" name.
type DataSourceProvider struct {
	mu      sync.RWMutex
	sources map[string]datasource.DataSource
}

func NewDataSourceProvider() *DataSourceProvider {
	return &DataSourceProvider{sources: map[string]datasource.DataSource{}}
}

func (p *DataSourceProvider) Add(ds datasource.DataSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sources[ds.ID()] = ds
}

func (p *DataSourceProvider) GetByID(ctx context.Context, id string) (datasource.DataSource, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ds, ok := p.sources[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return datasource.DataSource{}, ErrDataSourceNotFound.WithDetails(id)
	}
	return ds, nil
}

func (p *DataSourceProvider) All(ctx context.Context) ([]datasource.DataSource, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]datasource.DataSource, 0, len(p.sources))
	for _, ds := range p.sources {
		out = append(out, ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func init() {
	datasource.Register("default", NewDataSourceProvider())
}
