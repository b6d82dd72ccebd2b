package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gpslab/clientcore/internal/locale"
)

// FileInfo describes an upload candidate. MIMEType may be empty when the
// caller only knows the file name.
type FileInfo struct {
	Name     string
	Size     int64
	MIMEType string
}

// FileConstraints bounds an upload. AllowedTypes entries are either
// extensions (".png"), exact MIME types ("image/png"), or wildcard MIME
// prefixes ("image/*"). An empty list allows every type.
type FileConstraints struct {
	MaxSize      int64
	AllowedTypes []string
}

// ValidateFile checks size and type constraints, collecting every
// failure.
func ValidateFile(file FileInfo, constraints FileConstraints, loc locale.Locale) Result {
	var errs []string

	if constraints.MaxSize > 0 && file.Size > constraints.MaxSize {
		errs = append(errs, locale.T(loc, locale.KeyFileTooLarge, formatBytes(constraints.MaxSize)))
	}

	if len(constraints.AllowedTypes) > 0 && !typeAllowed(file, constraints.AllowedTypes) {
		errs = append(errs, locale.T(loc, locale.KeyFileType))
	}

	if len(errs) == 0 {
		return Valid()
	}
	return invalidAll(errs)
}

func typeAllowed(file FileInfo, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(file.Name))
	mime := strings.ToLower(file.MIMEType)

	for _, t := range allowed {
		t = strings.ToLower(strings.TrimSpace(t))
		switch {
		case strings.HasPrefix(t, "."):
			if ext == t {
				return true
			}
		case strings.HasSuffix(t, "/*"):
			if mime != "" && strings.HasPrefix(mime, strings.TrimSuffix(t, "*")) {
				return true
			}
		default:
			if mime == t {
				return true
			}
		}
	}
	return false
}

// formatBytes renders a byte count in the unit a user would expect.
func formatBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(n)/float64(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
