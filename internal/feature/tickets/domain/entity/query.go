package entity

// SortField is an allow-listed ordering key. Ordering is always ascending.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortName      SortField = "name"
)

// NormalizeSort maps unknown keys to SortCreatedAt.
func NormalizeSort(s string) SortField {
	switch f := SortField(s); f {
	case SortCreatedAt, SortUpdatedAt, SortName:
		return f
	}
	return SortCreatedAt
}

// FilterKind selects how tickets are filtered by assignee.
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterUnassigned
	FilterUser
)

// Filter tokens accepted in the userId query parameter.
const (
	FilterTokenAll        = "All"
	FilterTokenUnassigned = "unassigned"
)

// UserFilter restricts a ticket listing by assignee.
// UserID is only meaningful when Kind is FilterUser.
type UserFilter struct {
	Kind   FilterKind
	UserID uint
}

// ListQuery holds the ordering and filtering applied to a ticket listing.
type ListQuery struct {
	SortBy SortField
	User   UserFilter
}
