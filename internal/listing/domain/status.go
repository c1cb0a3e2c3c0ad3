package domain

import (
	"strings"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

// Status is the lifecycle state of a listing
type Status string

const (
	StatusPending Status = "PENDING"
	StatusActive  Status = "ACTIVE"
	StatusSold    Status = "SOLD"
)

// Statuses lists every status
var Statuses = []Status{StatusPending, StatusActive, StatusSold}

// ParseStatus converts a case-insensitive status name
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusActive, StatusSold:
		return st, nil
	default:
		return "", apperror.Validation("status", "status must be PENDING, ACTIVE or SOLD")
	}
}

// IsPublic reports whether anyone may see a listing in this status
func (s Status) IsPublic() bool {
	switch s {
	case StatusActive, StatusSold:
		return true
	case StatusPending:
		return false
	default:
		return false
	}
}

// Condition is NEW or USED
type Condition string

const (
	ConditionNew  Condition = "NEW"
	ConditionUsed Condition = "USED"
)

func ParseCondition(s string) (Condition, error) {
	switch c := Condition(strings.ToUpper(strings.TrimSpace(s))); c {
	case ConditionNew, ConditionUsed:
		return c, nil
	default:
		return "", apperror.Validation("condition", "condition must be NEW or USED")
	}
}

// Action is a requested status change
type Action string

const (
	ActionMarkSold   Action = "mark_sold"
	ActionMarkActive Action = "mark_active"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionMarkSold, ActionMarkActive:
		return a, nil
	default:
		return "", apperror.Validation("action", "action must be mark_sold or mark_active")
	}
}

// Error codes returned by listing rules
const (
	CodeNotOwner                  = "NOT_LISTING_OWNER"
	CodeAdminOnly                 = "ADMIN_ONLY"
	CodeNotActive                 = "LISTING_NOT_ACTIVE"
	CodeSold                      = "LISTING_SOLD"
	CodeStatusChanged             = "LISTING_STATUS_CHANGED"
	CodeCannotDeleteActiveListing = "CANNOT_DELETE_ACTIVE_LISTING"
)

var (
	ErrNotOwner      = apperror.Forbidden(CodeNotOwner, "Only the listing owner or an admin can do this")
	ErrAdminOnly     = apperror.Forbidden(CodeAdminOnly, "Only admins can activate listings")
	ErrNotActive     = apperror.InvalidState(CodeNotActive, "Listing must be ACTIVE to be marked as sold")
	ErrSold          = apperror.InvalidState(CodeSold, "Sold listings cannot be changed")
	ErrStatusChanged = apperror.Conflict(CodeStatusChanged, "Listing status changed by another request, reload and try again")
	ErrCannotDelete  = apperror.Forbidden(CodeCannotDeleteActiveListing, "Active or sold listings can only be deleted by an admin")
)

// Transition is the listing state machine. It returns the status a listing moves
// to when a requester with the given role applies action, or the reason it may not.
//
//	PENDING --mark_active (admin)--> ACTIVE --mark_sold (owner/admin)--> SOLD
//
// mark_active on an ACTIVE listing is a no-op. Nothing leaves SOLD.
func Transition(current Status, action Action, role identity.Role, isOwner bool) (Status, error) {
	switch action {
	case ActionMarkSold:
		if !isOwner && !role.IsAdmin() {
			return "", ErrNotOwner
		}
		switch current {
		case StatusActive:
			return StatusSold, nil
		case StatusPending, StatusSold:
			return "", ErrNotActive
		}
	case ActionMarkActive:
		if !role.IsAdmin() {
			return "", ErrAdminOnly
		}
		switch current {
		case StatusPending, StatusActive:
			return StatusActive, nil
		case StatusSold:
			return "", ErrSold
		}
	default:
		return "", apperror.Validation("action", "action must be mark_sold or mark_active")
	}
	return "", apperror.InvalidState("UNKNOWN_STATUS", "listing has an unknown status "+string(current))
}

// InitialStatus is the status of a newly created listing
func InitialStatus(creator identity.Role) Status {
	if creator.IsAdmin() {
		return StatusActive
	}
	return StatusPending
}

// CanView reports whether the principal may see the listing. Non-public listings
// are visible to their owner and admins only.
func CanView(l *Listing, p identity.Principal, authenticated bool) bool {
	if l.Status.IsPublic() {
		return true
	}
	if !authenticated {
		return false
	}
	return p.IsAdmin() || l.IsOwnedBy(p.UserID)
}

// CheckDelete enforces who may delete a listing: admins always, owners only while
// it is still PENDING.
func CheckDelete(l *Listing, p identity.Principal) error {
	if p.IsAdmin() {
		return nil
	}
	if l.Status != StatusPending {
		return ErrCannotDelete
	}
	if !l.IsOwnedBy(p.UserID) {
		return ErrNotOwner
	}
	return nil
}

// CheckEdit enforces who may edit a listing and that SOLD listings stay frozen
func CheckEdit(l *Listing, p identity.Principal) error {
	if !p.IsAdmin() && !l.IsOwnedBy(p.UserID) {
		return ErrNotOwner
	}
	if l.Status == StatusSold {
		return ErrSold
	}
	return nil
}
