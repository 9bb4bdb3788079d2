package persistence

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/datasource"
	"github.com/iota-uz/orghierarchy/pkg/composables"
	"github.com/iota-uz/orghierarchy/pkg/serrors"
)

var ErrDataSourceNotFound = serrors.NewError("ORG_DATA_SOURCE_NOT_FOUND", "data source is not registered", "")

// DataSourceProvider reads data sources from the data_sources table.
type DataSourceProvider struct{}

func NewDataSourceProvider() *DataSourceProvider {
	return &DataSourceProvider{}
}

func init() {
	datasource.Register("postgres", NewDataSourceProvider())
}

func (p *DataSourceProvider) GetByID(ctx context.Context, id string) (datasource.DataSource, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return datasource.DataSource{}, err
	}

	id = strings.ToLower(strings.TrimSpace(id))
	var (
		name         string
		userEditable bool
	)
	err = tx.QueryRow(ctx, `
SELECT name, user_editable FROM data_sources WHERE id = $1
`, id).Scan(&name, &userEditable)
	if err != nil {
		if err == pgx.ErrNoRows {
			return datasource.DataSource{}, ErrDataSourceNotFound.WithDetails(id)
		}
		return datasource.DataSource{}, err
	}
	return datasource.Hydrate(id, name, userEditable), nil
}

func (p *DataSourceProvider) All(ctx context.Context) ([]datasource.DataSource, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, name, user_editable FROM data_sources ORDER BY id
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []datasource.DataSource{}
	for rows.Next() {
		var (
			id           string
			name         string
			userEditable bool
		)
		if err := rows.Scan(&id, &name, &userEditable); err != nil {
			return nil, err
		}
		out = append(out, datasource.Hydrate(id, name, userEditable))
	}
	return out, rows.Err()
}
