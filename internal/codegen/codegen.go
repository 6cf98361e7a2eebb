// Package codegen renders the synced product catalog as source files
// consumable from game code: a Luau ModuleScript and, optionally, a
// TypeScript declaration file next to it.
package codegen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/bloxtools/bloxsync/internal/config"
	"github.com/bloxtools/bloxsync/internal/logging"
	"github.com/bloxtools/bloxsync/internal/mapping"
)

// Entry is one product row passed to the output templates.
type Entry struct {
	Key   string
	ID    int64
	Type  string
	Name  string
	Price int64
}

// Data holds everything the templates render.
type Data struct {
	UniverseID int64
	Entries    []Entry
}

// Generator renders product catalogs from parsed templates.
type Generator struct {
	luau       *template.Template
	typescript *template.Template
}

// New creates a Generator with the built-in templates.
func New() (*Generator, error) {
	funcs := template.FuncMap{"luastr": luaString}

	luau, err := template.New("luau").Funcs(funcs).Parse(luauTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse luau template: %w", err)
	}
	ts, err := template.New("typescript").Parse(typescriptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse typescript template: %w", err)
	}

	return &Generator{luau: luau, typescript: ts}, nil
}

// Build assembles template data from the manifest and the mapping. IDs
// come from an explicit product_id first, then the mapping; products
// synced by neither are emitted with ID 0 and a warning so generated
// code still compiles while the catalog converges.
func Build(cfg *config.Config, store *mapping.Store) Data {
	data := Data{
		UniverseID: cfg.UniverseID,
		Entries:    make([]Entry, 0, len(cfg.Products)),
	}

	keys := make([]string, 0, len(cfg.Products))
	for key := range cfg.Products {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		p := cfg.Products[key]

		id := p.ProductID
		if id == 0 {
			if entry := store.Get(key); entry != nil {
				id = entry.RobloxID
			}
		}
		if id == 0 {
			logging.Warn("product has no remote ID yet, emitting 0",
				logging.Product(key),
			)
		}

		data.Entries = append(data.Entries, Entry{
			Key:   key,
			ID:    id,
			Type:  string(p.Type),
			Name:  p.Name,
			Price: p.Price,
		})
	}

	return data
}

// Luau renders the ModuleScript source.
func (g *Generator) Luau(data Data) (string, error) {
	var buf bytes.Buffer
	if err := g.luau.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render luau module: %w", err)
	}
	return buf.String(), nil
}

// TypeScript renders the declaration file source.
func (g *Generator) TypeScript(data Data) (string, error) {
	var buf bytes.Buffer
	if err := g.typescript.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render typescript declarations: %w", err)
	}
	return buf.String(), nil
}

// WriteOutput renders and writes the configured output files. It is a
// no-op when the manifest declares no output section.
func WriteOutput(cfg *config.Config, store *mapping.Store) error {
	if cfg.Output == nil || cfg.Output.Path == "" {
		logging.Debug("no output configured, skipping generation")
		return nil
	}

	g, err := New()
	if err != nil {
		return err
	}
	data := Build(cfg, store)

	luau, err := g.Luau(data)
	if err != nil {
		return err
	}
	if err := writeFile(cfg.Output.Path, luau); err != nil {
		return err
	}
	logging.Info("wrote product module", logging.Path(cfg.Output.Path))

	if cfg.Output.TypeScript {
		tsPath := DeclarationPath(cfg.Output.Path)
		ts, err := g.TypeScript(data)
		if err != nil {
			return err
		}
		if err := writeFile(tsPath, ts); err != nil {
			return err
		}
		logging.Info("wrote typescript declarations", logging.Path(tsPath))
	}

	return nil
}

// DeclarationPath returns the .d.ts path next to a Luau output path.
func DeclarationPath(luauPath string) string {
	ext := filepath.Ext(luauPath)
	return strings.TrimSuffix(luauPath, ext) + ".d.ts"
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// luaString escapes a value for use inside a double-quoted Luau string.
func luaString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}
