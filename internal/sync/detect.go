package sync

import (
	"github.com/bloxtools/bloxsync/internal/mapping"
	"github.com/bloxtools/bloxsync/internal/model"
)

// changed reports whether the declared product differs from its
// last-synced record in any tracked field, including the image digest.
// imageHash is the product's current digest ("" when no image declared).
func changed(p model.Product, entry *mapping.Entry, imageHash string) bool {
	if entry == nil {
		return true
	}
	return scalarsChanged(p, entry) || assetChanged(entry, imageHash)
}

// scalarsChanged compares the non-asset fields against the record.
// Offsale only exists for game passes; a stray offsale flag on a dev
// product must not force an update on every run.
func scalarsChanged(p model.Product, entry *mapping.Entry) bool {
	if strVal(entry.Name) != p.Name ||
		entry.Price == nil || *entry.Price != p.Price ||
		strVal(entry.Description) != p.Description {
		return true
	}
	return p.Type == model.GamePass && boolVal(entry.Offsale) != p.Offsale
}

// assetChanged is computed independently of the scalar fields so an
// unchanged icon is never re-uploaded just because the price moved.
// Presence transitions (icon added or removed) count as changes.
func assetChanged(entry *mapping.Entry, imageHash string) bool {
	if entry == nil {
		return imageHash != ""
	}
	return strVal(entry.ImageHash) != imageHash
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func boolVal(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}
