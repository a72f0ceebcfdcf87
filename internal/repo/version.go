package repo

import (
	"fmt"
	"strconv"
	"strings"
)

// Version comparison follows the package manager convention: dotted numeric
// components, an optional trailing letter, optional _alpha/_beta/_pre/_rc/_p
// suffixes and an optional -rN revision.

type suffixKind int

const (
	suffixAlpha suffixKind = iota
	suffixBeta
	suffixPre
	suffixRC
	suffixNone
	suffixP
)

var suffixKinds = map[string]suffixKind{
	"alpha": suffixAlpha,
	"beta":  suffixBeta,
	"pre":   suffixPre,
	"rc":    suffixRC,
	"p":     suffixP,
}

type versionSuffix struct {
	kind suffixKind
	num  int
}

type parsedVersion struct {
	nums     []int
	letter   byte
	suffixes []versionSuffix
	revision int
}

func parseVersion(s string) (parsedVersion, error) {
	var v parsedVersion
	if s == "" {
		return v, fmt.Errorf("empty version")
	}

	rest := s
	if base, rev, ok := strings.Cut(rest, "-r"); ok {
		n, err := strconv.Atoi(rev)
		if err != nil || n < 0 {
			return v, fmt.Errorf("invalid revision in version %q", s)
		}
		v.revision = n
		rest = base
	}

	var sufs string
	if base, tail, ok := strings.Cut(rest, "_"); ok {
		rest, sufs = base, tail
	}

	if n := len(rest); n > 0 && rest[n-1] >= 'a' && rest[n-1] <= 'z' {
		v.letter = rest[n-1]
		rest = rest[:n-1]
	}

	for _, part := range strings.Split(rest, ".") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return v, fmt.Errorf("invalid version component %q in %q", part, s)
		}
		v.nums = append(v.nums, n)
	}

	if sufs != "" {
		for _, part := range strings.Split(sufs, "_") {
			name := strings.TrimRight(part, "0123456789")
			kind, ok := suffixKinds[name]
			if !ok {
				return v, fmt.Errorf("invalid version suffix %q in %q", part, s)
			}
			num := 0
			if digits := part[len(name):]; digits != "" {
				n, err := strconv.Atoi(digits)
				if err != nil {
					return v, fmt.Errorf("invalid version suffix %q in %q", part, s)
				}
				num = n
			}
			v.suffixes = append(v.suffixes, versionSuffix{kind: kind, num: num})
		}
	}

	return v, nil
}

// CompareVersions orders two version strings. Unparsable versions fall back
// to lexical ordering so the merge stays total.
func CompareVersions(a, b string) int {
	va, errA := parseVersion(a)
	vb, errB := parseVersion(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}

	for i := 0; i < len(va.nums) || i < len(vb.nums); i++ {
		na, nb := 0, 0
		if i < len(va.nums) {
			na = va.nums[i]
		}
		if i < len(vb.nums) {
			nb = vb.nums[i]
		}
		if na != nb {
			return cmpInt(na, nb)
		}
	}

	if va.letter != vb.letter {
		return cmpInt(int(va.letter), int(vb.letter))
	}

	for i := 0; i < len(va.suffixes) || i < len(vb.suffixes); i++ {
		sa := versionSuffix{kind: suffixNone}
		sb := versionSuffix{kind: suffixNone}
		if i < len(va.suffixes) {
			sa = va.suffixes[i]
		}
		if i < len(vb.suffixes) {
			sb = vb.suffixes[i]
		}
		if sa.kind != sb.kind {
			return cmpInt(int(sa.kind), int(sb.kind))
		}
		if sa.num != sb.num {
			return cmpInt(sa.num, sb.num)
		}
	}

	return cmpInt(va.revision, vb.revision)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// splitPV splits a "pkg-ver" string into package name and version, trying
// split points from the right so hyphenated package names work.
func splitPV(pv string) (name, version string, ok bool) {
	for i := len(pv) - 1; i > 0; i-- {
		if pv[i] != '-' {
			continue
		}
		if _, err := parseVersion(pv[i+1:]); err == nil {
			return pv[:i], pv[i+1:], true
		}
	}
	return "", "", false
}
