package main

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/infrastructure/persistence"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/services"
	"github.com/iota-uz/orghierarchy/pkg/authz"
	"github.com/iota-uz/orghierarchy/pkg/composables"
	"github.com/iota-uz/orghierarchy/pkg/configuration"
	"github.com/iota-uz/orghierarchy/pkg/eventbus"
	"github.com/iota-uz/orghierarchy/pkg/orglabels"
)

type checkOutput struct {
	User        uuid.UUID `json:"user"`
	Org         uuid.UUID `json:"org,omitempty"`
	OrgLongName string    `json:"org_long_name,omitempty"`
	Permissions []string  `json:"permissions"`
}

func newCheckCmd() *cobra.Command {
	var (
		userID    string
		orgID     string
		superuser bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Resolve the effective permission set of a user, optionally scoped to an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			logger := conf.Logger()

			uid, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			user := cliUser{id: uid, superuser: superuser}

			pool, err := connectDB(cmd.Context(), conf)
			if err != nil {
				return err
			}
			defer pool.Close()

			authzSvc, err := authz.NewService(authz.Config{
				ModelPath:  conf.Authz.ModelPath,
				PolicyPath: conf.Authz.PolicyPath,
				Logger:     logrus.NewEntry(logger),
			})
			if err != nil {
				return err
			}

			ctx := composables.WithPool(cmd.Context(), pool)
			repo := persistence.NewOrgRepository()
			provider := services.NewCasbinPermissionProvider(authzSvc, eventbus.NewEventPublisher(logger))
			resolver := services.NewPermissionResolver(repo, provider, logger.WithField("component", "orgctl"))

			var org *organization.Organization
			out := checkOutput{User: uid}
			if orgID != "" {
				oid, err := uuid.Parse(orgID)
				if err != nil {
					return fmt.Errorf("invalid --org: %w", err)
				}
				found, err := repo.GetByID(ctx, oid)
				if err != nil {
					return err
				}
				org = &found
				out.Org = oid
				longName, err := orglabels.LongName(ctx, repo, found)
				if err != nil {
					return err
				}
				out.OrgLongName = longName
			}

			set := resolver.Resolve(ctx, user, org)
			names := make([]string, 0, len(set))
			for name := range set {
				names = append(names, name)
			}
			sort.Strings(names)
			out.Permissions = names
			return writeJSON(out)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User UUID (required)")
	cmd.Flags().StringVar(&orgID, "org", "", "Organization UUID to scope the check to")
	cmd.Flags().BoolVar(&superuser, "superuser", false, "Treat the user as a superuser")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
