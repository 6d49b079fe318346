package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"kanban_backend/internal/feature/tickets/domain/entity"
)

// ParseListQuery converts raw sortBy and userId query values into a ListQuery.
// An unknown sort key falls back to createdAt. An unparseable userId is an error.
func ParseListQuery(sortBy, userID string) (entity.ListQuery, error) {
	q := entity.ListQuery{SortBy: entity.NormalizeSort(sortBy)}

	switch userID = strings.TrimSpace(userID); userID {
	case "", entity.FilterTokenAll:
		q.User = entity.UserFilter{Kind: entity.FilterAll}
	case entity.FilterTokenUnassigned:
		q.User = entity.UserFilter{Kind: entity.FilterUnassigned}
	default:
		id, err := strconv.ParseUint(userID, 10, 32)
		if err != nil || id == 0 {
			return entity.ListQuery{}, fmt.Errorf("%w: %q", ErrInvalidFilter, userID)
		}
		q.User = entity.UserFilter{Kind: entity.FilterUser, UserID: uint(id)}
	}
	return q, nil
}
