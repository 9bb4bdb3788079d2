package main

import (
	"github.com/spf13/cobra"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/datasource"
	_ "github.com/iota-uz/orghierarchy/modules/orghierarchy/infrastructure/inmemory"
	_ "github.com/iota-uz/orghierarchy/modules/orghierarchy/infrastructure/persistence"
	"github.com/iota-uz/orghierarchy/pkg/composables"
	"github.com/iota-uz/orghierarchy/pkg/configuration"
)

type dataSourceRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	UserEditable bool   `json:"user_editable"`
}

func newDataSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasources",
		Short: "List registered data sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()

			provider, err := datasource.Use(conf)
			if err != nil {
				return err
			}

			pool, err := connectDB(cmd.Context(), conf)
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx := composables.WithPool(cmd.Context(), pool)
			sources, err := provider.All(ctx)
			if err != nil {
				return err
			}

			rows := make([]dataSourceRow, 0, len(sources))
			for _, ds := range sources {
				rows = append(rows, dataSourceRow{
					ID:           ds.ID(),
					Name:         ds.Name(),
					UserEditable: ds.UserEditable(),
				})
			}
			return writeJSON(rows)
		},
	}
	return cmd
}
