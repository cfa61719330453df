package usecase

import (
	"connectmetric-backend/internal/domain"
	"connectmetric-backend/pkg/apperror"
)

// Capability checks are centralized so every operation authorizes the
// same way instead of re-deriving role logic inline.

// requireStaff gates platform-wide management operations.
func requireStaff(actor domain.Actor) error {
	if !actor.IsStaff {
		return apperror.Forbidden("Staff capability required")
	}
	return nil
}

// requireManager allows staff or the owner of the process being managed.
func requireManager(actor domain.Actor, ownerID string) error {
	if actor.IsStaff || actor.ID == ownerID {
		return nil
	}
	return apperror.Forbidden("Only staff or the process owner can manage this process")
}

// requireCandidate allows only the assignment's own candidate.
func requireCandidate(actor domain.Actor, candidateID string) error {
	if actor.ID != candidateID {
		return apperror.Forbidden("Only the assigned candidate can submit feedback")
	}
	return nil
}
