// Package model defines the core types shared across bloxsync.
package model

// Product is the declared intent for one monetizable resource.
// It is keyed by a stable, user-chosen string in the manifest and is
// immutable for the duration of a sync run.
type Product struct {
	// Type distinguishes developer products from game passes.
	Type ProductType `toml:"type"`

	// Name is the display name shown on Roblox.
	Name string `toml:"name"`

	// Price is the cost in Robux. Zero is a valid (free) price.
	Price int64 `toml:"price"`

	// Description is the optional store description.
	Description string `toml:"description,omitempty"`

	// Image is an optional local path to the icon asset.
	Image string `toml:"image,omitempty"`

	// ProductID pins a known remote ID, bypassing the lockfile mapping.
	// When set it always wins over whatever the mapping records.
	ProductID int64 `toml:"product_id,omitempty"`

	// Offsale takes a game pass off sale. Ignored for developer products.
	Offsale bool `toml:"offsale,omitempty"`
}

// HasImage returns true if the product declares an icon asset.
func (p Product) HasImage() bool {
	return p.Image != ""
}
