package workspace

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var nameRegexp = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// ValidateName checks that a dataset name conforms to naming rules.
func ValidateName(name string) error {
	if !nameRegexp.MatchString(name) {
		return fmt.Errorf("invalid dataset name %q: must match ^[a-z0-9_-]{1,64}$", name)
	}
	return nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9_-]+`)

// ResolveName determines the dataset name for an export zip using precedence:
// the --dataset flag if set, otherwise a slug of the zip's base name.
func ResolveName(flagOverride, zipPath string) (string, error) {
	if flagOverride != "" {
		if err := ValidateName(flagOverride); err != nil {
			return "", err
		}
		return flagOverride, nil
	}

	base := strings.TrimSuffix(filepath.Base(zipPath), filepath.Ext(zipPath))
	slug := strings.ToLower(base)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = strings.Trim(slug, "-_")
	if len(slug) > 64 {
		slug = slug[:64]
	}
	if slug == "" {
		return "", fmt.Errorf("cannot derive a dataset name from %q, use --dataset", zipPath)
	}
	return slug, nil
}
