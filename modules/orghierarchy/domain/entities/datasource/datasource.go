package datasource

import "strings"

// DataSource identifies the origin system of an organization record.
// The string primary key follows the upstream registries this library
// syncs against; UserEditable marks sources whose records local admins
// may freely edit regardless of held permissions.
type DataSource struct {
	id           string
	name         string
	userEditable bool
}

func New(id, name string, userEditable bool) DataSource {
	return DataSource{
		id:           normalizeID(id),
		name:         strings.TrimSpace(name),
		userEditable: userEditable,
	}
}

func Hydrate(id, name string, userEditable bool) DataSource {
	return New(id, name, userEditable)
}

func (d DataSource) ID() string         { return d.id }
func (d DataSource) Name() string       { return d.name }
func (d DataSource) UserEditable() bool { return d.userEditable }
func (d DataSource) IsZero() bool       { return d.id == "" }

func normalizeID(v string) string { return strings.ToLower(strings.TrimSpace(v)) }
