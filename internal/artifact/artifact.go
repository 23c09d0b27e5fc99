// Package artifact stores generated files, such as import error logs, so
// they can be downloaded after the run that produced them.
//
// Every backend implements core.ArtifactSink. Keys are opaque, URL-safe, and
// end with the artifact's file name.
package artifact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get for unknown or expired keys.
var ErrNotFound = errors.New("artifact not found")

// ErrInvalidKey is returned by Get for keys no backend could have issued.
var ErrInvalidKey = errors.New("invalid artifact key")

var (
	keyPattern  = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}-[A-Za-z0-9._-]+$`)
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// NewKey returns a fresh key for an artifact called name.
func NewKey(name string) string {
	clean := strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "._")
	if clean == "" {
		clean = "artifact"
	}
	return uuid.New().String() + "-" + clean
}

// NameFromKey returns the file name embedded in a key.
func NameFromKey(key string) string {
	if !keyPattern.MatchString(key) {
		return ""
	}
	return key[37:]
}

func checkKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
