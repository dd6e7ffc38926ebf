package assets

import "fmt"

// ValidateAssetName checks a renderer asset name such as "materialize".
// Names map directly to file names under styles/ and templates/, so only
// lowercase letters, digits and inner hyphens are accepted.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty renderer name", ErrInvalidAssetName)
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r == '-' && i > 0 && i < len(name)-1:
		default:
			return fmt.Errorf("%w: renderer asset %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}
