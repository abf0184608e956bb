package pricing

import (
	"errors"
	"fmt"

	"github.com/mvolkov/storefront/internal/models"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409
)

// ValidateQuantity clamps a requested quantity into the unit's bounds.
// MaxQty of 0 means unbounded. Inverted bounds are a catalog data error and
// are rejected rather than silently clamped.
func ValidateQuantity(requested int64, u models.UnitVariant) (int64, error) {
	minQty := u.MinQty
	if minQty < 1 {
		minQty = 1
	}
	if u.MaxQty > 0 && u.MaxQty < minQty {
		return 0, fmt.Errorf("%w: unit %q has max_qty %d below min_qty %d", ErrValidation, u.Name, u.MaxQty, minQty)
	}

	q := requested
	if q < minQty {
		q = minQty
	}
	if u.MaxQty > 0 && q > u.MaxQty {
		q = u.MaxQty
	}
	return q, nil
}

// SnapQuantity rounds the requested quantity to the nearest multiple of the
// unit's increment offset from MinQty, then clamps into bounds. Used by the
// increment-stepped quantity controls.
func SnapQuantity(requested int64, u models.UnitVariant) (int64, error) {
	minQty := u.MinQty
	if minQty < 1 {
		minQty = 1
	}
	if u.MaxQty > 0 && u.MaxQty < minQty {
		return 0, fmt.Errorf("%w: unit %q has max_qty %d below min_qty %d", ErrValidation, u.Name, u.MaxQty, minQty)
	}

	inc := u.Increment
	if inc < 1 {
		inc = 1
	}

	q := requested
	if q < minQty {
		return minQty, nil
	}

	steps := (q - minQty + inc/2) / inc
	q = minQty + steps*inc

	if u.MaxQty > 0 && q > u.MaxQty {
		// step back onto the grid instead of clamping off it
		q = minQty + (u.MaxQty-minQty)/inc*inc
	}
	return q, nil
}
