package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/infrastructure/persistence"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/presentation/mappers"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/services"
	"github.com/iota-uz/orghierarchy/pkg/composables"
	"github.com/iota-uz/orghierarchy/pkg/configuration"
)

type treeOutput struct {
	Rows []treeRow `json:"rows"`
}

type treeRow struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	InternalType string    `json:"internal_type"`
	DataSource   string    `json:"data_source"`
	Depth        int       `json:"depth"`
	Highlighted  bool      `json:"highlighted"`
}

func newTreeCmd() *cobra.Command {
	var (
		userID    string
		superuser bool
		view      string
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the organization tree visible to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			logger := conf.Logger()

			var user organization.User
			if userID != "" {
				uid, err := uuid.Parse(userID)
				if err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
				user = cliUser{id: uid, superuser: superuser}
			} else if superuser {
				user = cliUser{id: uuid.New(), superuser: true}
			}

			base, err := baseQuery(view)
			if err != nil {
				return err
			}

			pool, err := connectDB(cmd.Context(), conf)
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx := composables.WithPool(cmd.Context(), pool)
			repo := persistence.NewOrgRepository()
			filter := services.NewVisibilityFilter(repo, logger.WithField("component", "orgctl"))

			orgs, err := filter.VisibleOrganizations(ctx, user, base)
			if err != nil {
				return err
			}

			tree := mappers.OrganizationsToTree(orgs, nil)
			rows := make([]treeRow, 0, len(tree.Nodes))
			for _, node := range tree.Nodes {
				rows = append(rows, treeRow{
					ID:           node.ID,
					Title:        mappers.IndentedTitle(node, conf.Org.TreeIndent),
					InternalType: node.InternalType,
					DataSource:   node.DataSource,
					Depth:        node.Depth,
					Highlighted:  node.Highlighted,
				})
			}
			return writeJSON(treeOutput{Rows: rows})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User UUID the view is filtered for (empty means anonymous)")
	cmd.Flags().BoolVar(&superuser, "superuser", false, "Treat the user as a superuser")
	cmd.Flags().StringVar(&view, "view", "all", "View to render: all, sub, affiliated")
	return cmd
}

func baseQuery(view string) (organization.Query, error) {
	switch view {
	case "all":
		return organization.All(), nil
	case "sub":
		return organization.SubOrganizationQuery(), nil
	case "affiliated":
		return organization.AffiliatedOrganizationQuery(), nil
	default:
		return nil, fmt.Errorf("unknown --view %q (want all, sub or affiliated)", view)
	}
}
