// Package authz decides whether an authenticated user may act on a single object.
package authz

import (
	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
)

// Authorize grants access when target is the actor's own account or a resource the actor owns.
// Any other target is denied with common.ErrForbidden.
func Authorize(actorID uint64, target any) error {
	switch t := target.(type) {
	case *domain.User:
		if t != nil && t.ID == actorID {
			return nil
		}
	case domain.Owned:
		if t != nil && t.OwnerRef() == actorID {
			return nil
		}
	}
	return common.ErrForbidden
}
