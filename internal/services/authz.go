package services

import (
	"github.com/SAP-F-2025/identity-service/internal/models"
)

// requireElevated denies unless the actor carries an administrative role.
func requireElevated(actor *models.Principal, resource, action string) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.IsElevated() {
		return NewPermissionError(actor.ID, resource, action, "requires an elevated role")
	}
	return nil
}

// requireSelfOrElevated denies unless the actor is the target user or
// carries an administrative role.
func requireSelfOrElevated(actor *models.Principal, targetUserID, resource, action string) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if actor.ID == targetUserID || actor.IsElevated() {
		return nil
	}
	return NewPermissionError(actor.ID, resource, action, "not the owner")
}

// requireRole denies unless the actor holds the given role.
func requireRole(actor *models.Principal, role models.UserRole, resource, action string) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.HasRole(role) {
		return NewPermissionError(actor.ID, resource, action, "requires the "+string(role)+" role")
	}
	return nil
}
