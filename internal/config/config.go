// Package config loads and validates the bloxsync.toml product manifest.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bloxtools/bloxsync/internal/model"
)

// DefaultPath is the default manifest file name.
const DefaultPath = "bloxsync.toml"

// Config is the declared product manifest for one universe.
type Config struct {
	// UniverseID is the Roblox universe all products belong to.
	UniverseID int64 `toml:"universe_id"`

	// Output configures code generation. Nil disables it.
	Output *OutputConfig `toml:"output,omitempty"`

	// Products maps stable local keys to product declarations.
	Products map[string]model.Product `toml:"products"`
}

// OutputConfig configures generated source artifacts.
type OutputConfig struct {
	// Path is where the Luau module is written.
	Path string `toml:"path"`

	// TypeScript additionally emits a .d.ts declaration file.
	TypeScript bool `toml:"typescript,omitempty"`
}

// ValidationError reports an inconsistency in the manifest that must
// prevent reconciliation from running.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid manifest: " + e.Message
}

// Load reads and validates a manifest from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is provided by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the manifest for inconsistencies: a missing universe,
// invalid product fields, and duplicate display names within a category.
// Roblox rejects duplicate names per category, so catching them locally
// avoids burning remote calls on a manifest that cannot fully sync.
func (c *Config) Validate() error {
	if c.UniverseID <= 0 {
		return &ValidationError{Message: "universe_id must be set"}
	}

	devProductNames := make(map[string]string)
	gamepassNames := make(map[string]string)

	for key, product := range c.Products {
		if !product.Type.IsValid() {
			return &ValidationError{Message: fmt.Sprintf("product %q has invalid type %q", key, product.Type)}
		}
		if product.Name == "" {
			return &ValidationError{Message: fmt.Sprintf("product %q has no name", key)}
		}
		if product.Price < 0 {
			return &ValidationError{Message: fmt.Sprintf("product %q has negative price %d", key, product.Price)}
		}

		names := devProductNames
		if product.Type == model.GamePass {
			names = gamepassNames
		}
		if existing, ok := names[product.Name]; ok {
			return &ValidationError{Message: fmt.Sprintf(
				"duplicate %s name %q found in keys %q and %q",
				product.Type.Display(), product.Name, existing, key)}
		}
		names[product.Name] = key
	}

	return nil
}

// Save writes the manifest to path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}

	f, err := os.Create(path) // #nosec G304 - path is provided by the operator
	if err != nil {
		return err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Default returns a starter manifest with one example of each product type.
func Default() *Config {
	return &Config{
		UniverseID: 123456789,
		Output: &OutputConfig{
			Path:       "src/shared/modules/Products.luau",
			TypeScript: true,
		},
		Products: map[string]model.Product{
			"example_product": {
				Type:        model.DevProduct,
				Name:        "Example Product",
				Price:       100,
				Description: "An example developer product",
			},
			"example_gamepass": {
				Type:        model.GamePass,
				Name:        "Example Gamepass",
				Price:       500,
				Description: "An example gamepass",
			},
		},
	}
}

// Exists returns true if a manifest file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
