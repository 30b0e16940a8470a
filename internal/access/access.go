// Package access holds the owner capability check used to gate the admin panel.
//
// The check is a convenience gate for the API and UI. The database's own
// access rules remain the enforcement point and are never replaced by it.
package access

import (
	"errors"

	"github.com/Hunter-sfcb/iceapp/internal/model"
)

// OwnerPriority is the lowest rank priority that carries the owner capability.
const OwnerPriority = 1000

// ErrForbidden is returned by owner-only operations for any other viewer.
var ErrForbidden = errors.New("access denied: only the site owner can open this panel")

// IsOwner reports whether the resolved profile holds a rank with priority >= OwnerPriority.
// A nil profile, or one without a resolved rank, is never an owner.
func IsOwner(p *model.Profile) bool {
	return p != nil && p.Rank != nil && p.Rank.Priority >= OwnerPriority
}
