package model

import (
	"fmt"
	"strings"
)

// ProductType represents the category of a monetizable resource.
// Developer products are one-time purchases; game passes grant
// persistent access once bought.
type ProductType string

const (
	// DevProduct is a consumable one-time purchase.
	DevProduct ProductType = "dev_product"

	// GamePass is a persistent-access pass.
	GamePass ProductType = "gamepass"
)

// IsValid returns true if the product type is recognized.
func (t ProductType) IsValid() bool {
	switch t {
	case DevProduct, GamePass:
		return true
	default:
		return false
	}
}

// AllProductTypes returns all supported product types.
func AllProductTypes() []ProductType {
	return []ProductType{DevProduct, GamePass}
}

// String returns the string representation of the product type.
func (t ProductType) String() string {
	return string(t)
}

// Display returns a human-readable label for the product type.
func (t ProductType) Display() string {
	switch t {
	case DevProduct:
		return "DevProduct"
	case GamePass:
		return "Gamepass"
	default:
		return "Unknown"
	}
}

// ParseProductType converts a string to a ProductType.
// Returns an error if the type is not recognized.
func ParseProductType(s string) (ProductType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	t := ProductType(normalized)
	if t.IsValid() {
		return t, nil
	}

	// Common aliases
	switch normalized {
	case "devproduct", "developer_product", "product":
		return DevProduct, nil
	case "game_pass", "pass":
		return GamePass, nil
	default:
		valid := make([]string, 0, len(AllProductTypes()))
		for _, t := range AllProductTypes() {
			valid = append(valid, t.String())
		}
		return "", fmt.Errorf("unknown product type %q (valid: %s)", s, strings.Join(valid, ", "))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so product types
// are validated while decoding the manifest.
func (t *ProductType) UnmarshalText(text []byte) error {
	parsed, err := ParseProductType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t ProductType) MarshalText() ([]byte, error) {
	return []byte(t), nil
}
