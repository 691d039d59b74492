package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirPathValidator validates user-supplied directory paths, such as the
// recordings root and the hash cache location.
type DirPathValidator struct {
	// MustExist requires the path to be an existing directory
	MustExist bool
	// MaxPathLength is the maximum allowed path length
	MaxPathLength int
}

// NewDirPathValidator creates a validator for paths that may be created
// later, like the cache directory.
func NewDirPathValidator() *DirPathValidator {
	return &DirPathValidator{
		MustExist:     false,
		MaxPathLength: 4096,
	}
}

// NewExistingDirValidator creates a validator for paths that must already
// be present, like the recordings root.
func NewExistingDirValidator() *DirPathValidator {
	return &DirPathValidator{
		MustExist:     true,
		MaxPathLength: 4096,
	}
}

// ValidateAndNormalize expands, cleans and absolutizes a directory path.
func (v *DirPathValidator) ValidateAndNormalize(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > v.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", v.MaxPathLength)
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("path contains null bytes")
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	} else if strings.HasPrefix(path, "~") {
		// ~user expansion is not supported
		return "", fmt.Errorf("unsupported home directory reference in %q", path)
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	if v.MustExist {
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("directory %s: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("%s is not a directory", abs)
		}
	}

	return abs, nil
}
