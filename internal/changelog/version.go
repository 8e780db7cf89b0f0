package changelog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// semverPattern accepts an optional "v" prefix and an optional
// prerelease/build suffix around the three numeric components.
var semverPattern = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(?:[-+].*)?$`)

// InvalidVersionError reports a version string that does not parse as
// semantic versioning.
type InvalidVersionError struct {
	Version string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("version %q is not a semantic version", e.Version)
}

// NormalizeVersion strips the tag prefix and lowercases a version string so
// "v1.2.3", "V1.2.3", and "1.2.3" compare equal.
func NormalizeVersion(version string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(version), "v"))
}

type semver struct {
	major, minor, patch int
}

func parseSemver(version string) (semver, error) {
	m := semverPattern.FindStringSubmatch(strings.TrimSpace(version))
	if m == nil {
		return semver{}, &InvalidVersionError{Version: version}
	}
	var v semver
	// The pattern guarantees numeric components.
	v.major, _ = strconv.Atoi(m[1])
	v.minor, _ = strconv.Atoi(m[2])
	v.patch, _ = strconv.Atoi(m[3])
	return v, nil
}

// IsSemver reports whether s parses as a semantic version, with or without
// a tag prefix.
func IsSemver(s string) bool {
	_, err := parseSemver(s)
	return err == nil
}

// CompareVersions orders two semantic versions a and b, returning a negative
// number when a is lower, zero when equal, and a positive number when a is
// higher. Prerelease and build suffixes are ignored.
func CompareVersions(a, b string) (int, error) {
	va, err := parseSemver(a)
	if err != nil {
		return 0, err
	}
	vb, err := parseSemver(b)
	if err != nil {
		return 0, err
	}
	if va.major != vb.major {
		return va.major - vb.major, nil
	}
	if va.minor != vb.minor {
		return va.minor - vb.minor, nil
	}
	return va.patch - vb.patch, nil
}

// NextVersion computes the release version that follows prior, given the
// commits going into the release. Any commit of a minor-marked type bumps
// the minor component and resets patch; otherwise the patch component is
// bumped. Major bumps are never computed automatically.
func NextVersion(prior string, commits []ClassifiedCommit) (string, error) {
	v, err := parseSemver(prior)
	if err != nil {
		return "", err
	}
	minor := false
	for _, c := range commits {
		if c.Type.Minor {
			minor = true
			break
		}
	}
	if minor {
		return fmt.Sprintf("%d.%d.0", v.major, v.minor+1), nil
	}
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch+1), nil
}
