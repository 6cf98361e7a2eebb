// Package digest computes content digests for local asset files.
// A digest is a cheap proxy for "has this file changed since last sync",
// letting the reconciler skip re-uploading unchanged icons.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/bloxtools/bloxsync/internal/model"
)

// File returns the lowercase hex sha256 digest of the file at path.
// An unreadable file is an error, not an absent digest: a declared icon
// that cannot be read must fail the owning product rather than silently
// stop being change-tracked.
func File(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the user's own manifest
	if err != nil {
		return "", fmt.Errorf("read asset %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ForProduct returns the digest of the product's declared image, or the
// empty string when no image is declared. The empty string is distinct
// from any computed digest, so presence transitions show up as changes.
func ForProduct(p model.Product) (string, error) {
	if !p.HasImage() {
		return "", nil
	}
	return File(p.Image)
}
