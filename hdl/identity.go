package hdl

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Names of the identity parameters injected into every wrapper header.
const (
	ParamIPType    = "IP_TYPE"
	ParamIPVersion = "IP_VERSION"
	ParamIPID      = "IP_ID"
)

func isIdentityParam(name string) bool {
	return name == ParamIPType || name == ParamIPVersion || name == ParamIPID
}

// Version is a core version in the v<major>_<minor> form.
type Version struct {
	Major int
	Minor int
}

// ParseVersion parses strings like "v1_0".
func ParseVersion(s string) (Version, error) {
	rest, ok := strings.CutPrefix(s, "v")
	if !ok {
		return Version{}, fmt.Errorf("version %q does not start with v", s)
	}

	major, minor, ok := strings.Cut(rest, "_")
	if !ok {
		return Version{}, fmt.Errorf("version %q is not v<major>_<minor>", s)
	}

	ma, err := parseVersionPart(major)
	if err != nil {
		return Version{}, fmt.Errorf("version %q: %w", s, err)
	}

	mi, err := parseVersionPart(minor)
	if err != nil {
		return Version{}, fmt.Errorf("version %q: %w", s, err)
	}

	return Version{Major: ma, Minor: mi}, nil
}

func parseVersionPart(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}

	if n < 0 || n > 0xffff {
		return 0, fmt.Errorf("%d does not fit in 16 bits", n)
	}

	return n, nil
}

func (v Version) String() string {
	return fmt.Sprintf("v%d_%d", v.Major, v.Minor)
}

// Pack encodes the version as major<<16 | minor.
func (v Version) Pack() uint32 {
	return uint32(v.Major)<<16 | uint32(v.Minor)
}

// PackID encodes a timestamp into 32 bits. From the most significant bit:
// 7 bits of years since 2022, 5 bits of day, 4 bits of month, 4 bits of hour
// modulo 12, 6 bits of minute, and 6 bits of second.
func PackID(t time.Time) uint32 {
	year := t.Year() - 2022
	if year < 0 {
		year = 0
	}

	return uint32(year&0x7f)<<25 |
		uint32(t.Day()&0x1f)<<20 |
		uint32(int(t.Month())&0xf)<<16 |
		uint32((t.Hour()%12)&0xf)<<12 |
		uint32(t.Minute()&0x3f)<<6 |
		uint32(t.Second()&0x3f)
}

// Identity is what a generated wrapper says about itself.
type Identity struct {
	Type    string
	Version Version
	ID      uint32
}

// NewIdentity builds the identity of a wrapper generated at time t.
func NewIdentity(ipType string, v Version, t time.Time) Identity {
	return Identity{Type: ipType, Version: v, ID: PackID(t)}
}

// Params returns the identity as HDL parameters.
func (id Identity) Params() []Param {
	return []Param{
		{Name: ParamIPType, Value: strconv.Quote(id.Type)},
		{Name: ParamIPVersion, Value: fmt.Sprintf("32'h%x", id.Version.Pack())},
		{Name: ParamIPID, Value: fmt.Sprintf("32'h%x", id.ID)},
	}
}
