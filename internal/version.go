package internal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Set with -ldflags "-X github.com/zhengshuai-xiao/ufhash/internal.version=..."
var (
	version  = "0.3.0-dev"
	revision = ""
)

type Semver struct {
	major, minor, patch int
	preRelease, build   string
}

// Version returns the running version, with the revision when it is known.
func Version() string {
	if revision == "" {
		return version
	}
	return version + "+" + revision
}

// Parse reads MAJOR[.MINOR[.PATCH]][-PRERELEASE][+BUILD]. It returns nil if
// v is not a version.
func Parse(v string) *Semver {
	s := &Semver{}
	if i := strings.Index(v, "+"); i >= 0 {
		v, s.build = v[:i], v[i+1:]
	}
	if i := strings.Index(v, "-"); i >= 0 {
		v, s.preRelease = v[:i], v[i+1:]
	}

	parts := strings.Split(v, ".")
	if len(parts) > 3 {
		return nil
	}
	nums := []*int{&s.major, &s.minor, &s.patch}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil
		}
		*nums[i] = n
	}
	return s
}

func (s *Semver) String() string {
	str := fmt.Sprintf("%d.%d.%d", s.major, s.minor, s.patch)
	if s.preRelease != "" {
		str += "-" + s.preRelease
	}
	return str
}

// CompareVersions returns -1, 0 or 1. Build metadata is ignored and a
// release sorts after its pre-releases.
func CompareVersions(v1, v2 *Semver) (int, error) {
	if v1 == nil || v2 == nil {
		return 0, errors.New("cannot compare nil versions")
	}
	for _, d := range [][2]int{{v1.major, v2.major}, {v1.minor, v2.minor}, {v1.patch, v2.patch}} {
		if d[0] != d[1] {
			if d[0] < d[1] {
				return -1, nil
			}
			return 1, nil
		}
	}
	switch {
	case v1.preRelease == v2.preRelease:
		return 0, nil
	case v1.preRelease == "":
		return 1, nil
	case v2.preRelease == "":
		return -1, nil
	case v1.preRelease < v2.preRelease:
		return -1, nil
	default:
		return 1, nil
	}
}
