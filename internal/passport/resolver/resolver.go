// Package resolver turns a caller handle into a passport identifier.
package resolver

import (
	"context"

	"passport/internal/passport/sources"
	id "passport/pkg/domain"
)

// Resolve returns the passport identifier for handle, or ok=false when the
// owner holds no passport. Identifier handles are returned as-is without a
// registry round-trip; their existence is checked by whichever call uses them.
//
// The reverse lookup's not_found outcome, and an identifier of zero, are the
// only failures converted to absence. Everything else is returned unchanged.
func Resolve(ctx context.Context, registry sources.IdentityRegistry, handle id.Handle) (id.PassportID, bool, error) {
	if passportID, ok := handle.ID(); ok {
		return passportID, true, nil
	}

	owner, ok := handle.Owner()
	if !ok {
		return 0, false, nil
	}

	passportID, err := registry.PassportIDByOwner(ctx, owner)
	if err != nil {
		if sources.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if passportID.IsZero() {
		return 0, false, nil
	}
	return passportID, true, nil
}
