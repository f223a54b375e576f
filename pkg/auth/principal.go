package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/platinummonkey/kgsearch/pkg/contextkeys"
)

// InProgressRolePrefix prefixes the team roles allowed to read curated data
const InProgressRolePrefix = "team-collab-kg-search-in-progress-"

// AdminRole may manage the caches of the service
const AdminRole = InProgressRolePrefix + "administrator"

var (
	// ErrUnauthenticated is returned when a request carries no valid token
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller lacks the required role
	ErrForbidden = errors.New("insufficient permissions")
)

// Principal is an authenticated caller
type Principal struct {
	Subject  string   `json:"sub"`
	Username string   `json:"username,omitempty"`
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// HasRole reports whether the caller holds the role
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// InProgress reports whether the caller may read the curated group
func (p *Principal) InProgress() bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if strings.HasPrefix(r, InProgressRolePrefix) {
			return true
		}
	}
	return false
}

// FromContext returns the principal of the request, nil when anonymous
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(contextkeys.PrincipalKey).(*Principal)
	return p
}

// RequireInProgress fails unless the caller may read the curated group
func RequireInProgress(ctx context.Context) error {
	p := FromContext(ctx)
	if p == nil {
		return ErrUnauthenticated
	}
	if !p.InProgress() {
		return ErrForbidden
	}
	return nil
}

// RequireAdmin fails unless the caller holds the administrator role
func RequireAdmin(ctx context.Context) error {
	p := FromContext(ctx)
	if p == nil {
		return ErrUnauthenticated
	}
	if !p.HasRole(AdminRole) {
		return ErrForbidden
	}
	return nil
}
