package query

import (
	"context"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

// ListUsersQuery represents the query to list users, optionally by role
type ListUsersQuery struct {
	Role   string
	Limit  int
	Offset int
}

// UserPage is a page of users
type UserPage struct {
	Users  []domain.User `json:"users"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// ListUsersHandler handles list users query
type ListUsersHandler struct {
	repo domain.UserRepository
}

// NewListUsersHandler creates a new list users handler
func NewListUsersHandler(repo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{repo: repo}
}

// Handle executes the list users query
func (h *ListUsersHandler) Handle(ctx context.Context, q ListUsersQuery) (*UserPage, error) {
	filter := domain.UserFilter{Limit: clampLimit(q.Limit), Offset: max(q.Offset, 0)}
	if q.Role != "" {
		role, err := identity.ParseRole(q.Role)
		if err != nil {
			return nil, apperror.Validation("role", "unknown role")
		}
		filter.Role = role
	}

	users, total, err := h.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return &UserPage{Users: users, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}
