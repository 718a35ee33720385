package auth

import (
	"errors"

	"fixdesk/internal/models"
)

var ErrForbidden = errors.New("access denied")

// CanAccess is the ticket visibility predicate.
// Admins see everything. Fixers see unclaimed tickets and their own;
// a ticket claimed by a different fixer is off limits. Clients see
// only tickets they opened.
func CanAccess(user *models.User, ticket *models.Ticket) bool {
	if user == nil || ticket == nil {
		return false
	}
	switch user.Role {
	case models.RoleAdmin:
		return true
	case models.RoleFixer:
		if ticket.FixerID != nil && *ticket.FixerID != user.ID {
			return false
		}
		return true
	default:
		return ticket.ClientID == user.ID
	}
}

// RequireRole gates an operation on the actor's role.
func RequireRole(user *models.User, allowed ...models.Role) error {
	if user == nil {
		return ErrForbidden
	}
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// RequireAccess combines the ticket predicate with an error return so
// workflow code reads as a straight guard chain.
func RequireAccess(user *models.User, ticket *models.Ticket) error {
	if !CanAccess(user, ticket) {
		return ErrForbidden
	}
	return nil
}
