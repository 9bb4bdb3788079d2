package orglabels

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
)

// Separator joins the segments of an organization's display path.
const Separator = " / "

// LongName renders an organization's full ancestor path, root first,
// ending with the organization itself. Segments with blank names fall
// back to the record id so the path never collapses.
func LongName(ctx context.Context, repo organization.Repository, org organization.Organization) (string, error) {
	ancestors, err := repo.Ancestors(ctx, org.ID())
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		parts = append(parts, segment(ancestors[i]))
	}
	parts = append(parts, segment(org))
	return strings.Join(parts, Separator), nil
}

// ResolveLongNames computes the display path for each organization in
// the batch.
func ResolveLongNames(ctx context.Context, repo organization.Repository, orgs []organization.Organization) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(orgs))
	for _, org := range orgs {
		name, err := LongName(ctx, repo, org)
		if err != nil {
			return nil, err
		}
		out[org.ID()] = name
	}
	return out, nil
}

func segment(org organization.Organization) string {
	if name := strings.TrimSpace(org.Name()); name != "" {
		return name
	}
	return org.ID().String()
}
