package buildid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/extwait/internal/utils"
)

const (
	// EnvKey is the variable the frontend bundle reads its build id from.
	EnvKey         = "NEXT_PUBLIC_EXT_BUILD_ID"
	DefaultEnvFile = ".env.production.local"
	ShortHashLen   = 7
)

var ErrNoCommitRef = errors.New("no commit reference available to derive the build id")

// Resolve picks the build id: a non-blank override wins, otherwise the
// commit reference shortened to ShortHashLen characters.
func Resolve(commitRef, override string) (string, error) {
	if o := strings.TrimSpace(override); o != "" {
		return o, nil
	}

	ref := strings.TrimSpace(commitRef)
	if ref == "" {
		return "", ErrNoCommitRef
	}
	if len(ref) > ShortHashLen {
		ref = ref[:ShortHashLen]
	}
	return ref, nil
}

// Line renders the env assignment written for the frontend build.
func Line(id string) string {
	return EnvKey + "=" + id
}

// WriteEnvFile replaces path with a single assignment of the build id.
func WriteEnvFile(path, id string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if err := utils.CreateFile(path, []byte(Line(id)), utils.FileTypeBinary, 0o644); err != nil {
		return fmt.Errorf("failed to write build id: %w", err)
	}
	return nil
}
