package service

import (
	"github.com/99minutos/identity-service/internal/core/domain"
)

// OwnershipPolicy decides resource-level access to user records: a principal
// may act on its own record, and an admin may act on any record.
type OwnershipPolicy struct{}

// Authorize allows the call when key addresses the actor's own record or the
// actor is an admin.
func (OwnershipPolicy) Authorize(actor *domain.Principal, key domain.LookupKey) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if key.Matches(actor) || actor.IsAdmin() {
		return nil
	}
	return domain.ErrUnauthorized
}

// RestrictPatch drops the role change from a non-admin's update, including
// an update of the actor's own record.
func (OwnershipPolicy) RestrictPatch(actor *domain.Principal, patch domain.UserPatch) domain.UserPatch {
	if !actor.IsAdmin() {
		patch.Role = nil
	}
	return patch
}
