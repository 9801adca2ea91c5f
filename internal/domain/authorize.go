package domain

import (
	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/observability"
)

// requireRole applies the role gate for op.
func requireRole(actor access.Actor, op access.Operation) error {
	if access.Permits(actor, op) {
		return nil
	}
	observability.RecordAuthorizationDenied(string(op), "role")
	return forbidden(MsgAccessDenied)
}

// requireOwner applies the ownership policy against the resource owner.
func requireOwner(actor access.Actor, op access.Operation, ownerID int64, msg string) error {
	if access.Decide(actor, ownerID) == access.Allow {
		return nil
	}
	observability.RecordAuthorizationDenied(string(op), "ownership")
	return forbidden(msg)
}

// requireScope checks that the owner named by the caller is the resource's real owner.
func requireScope(op access.Operation, claimedOwnerID, ownerID int64, msg string) error {
	if claimedOwnerID == ownerID {
		return nil
	}
	observability.RecordAuthorizationDenied(string(op), "scope")
	return forbidden(msg)
}
