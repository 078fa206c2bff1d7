// Package manifest reads and patches script-module manifests.
package manifest

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a three-part module version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String returns the dotted version string.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion parses "major.minor" or "major.minor.patch".
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}

	var v Version
	var err error
	if v.Major, err = strconv.Atoi(parts[0]); err != nil {
		return Version{}, fmt.Errorf("invalid major version in %q", s)
	}
	if v.Minor, err = strconv.Atoi(parts[1]); err != nil {
		return Version{}, fmt.Errorf("invalid minor version in %q", s)
	}
	if len(parts) == 3 {
		if v.Patch, err = strconv.Atoi(parts[2]); err != nil {
			return Version{}, fmt.Errorf("invalid patch version in %q", s)
		}
	}
	return v, nil
}

// WithPatch returns a copy of v with the patch component replaced.
func (v Version) WithPatch(patch int) Version {
	v.Patch = patch
	return v
}
