package builtin

import (
	"fmt"
	"regexp"
	"strings"

	"pkgscan/internal/checks"
	"pkgscan/internal/feed"
	"pkgscan/internal/repo"
	"pkgscan/internal/result"
)

var copyrightRe = regexp.MustCompile(`^# Copyright ([0-9]{4})(-[0-9]{4})? (.+)$`)

const (
	licenseHeader = "# Distributed under the terms of the GNU General Public License v2"
	retiredHolder = "Gentoo Foundation"
)

// FileHeader validates the two-line header every build file must carry: a
// copyright line followed by the license line.
type FileHeader struct {
	checks.Base
}

func (c *FileHeader) ID() string    { return "file-header" }
func (c *FileHeader) Title() string { return "Build file header validation" }
func (c *FileHeader) Description() string {
	return `Checks that a build file starts with a well-formed copyright line
("# Copyright YEARS HOLDER") followed by the expected license line, and
that the copyright is not still assigned to a retired holder.`
}

func (c *FileHeader) Spec() checks.Spec {
	return checks.Spec{Feed: feed.Ebuild, Scope: feed.VersionScope, Filter: feed.NoFilter}
}

func (c *FileHeader) Feed(item any) ([]result.Result, error) {
	eb, ok := item.(repo.Ebuild)
	if !ok {
		return nil, fmt.Errorf("file-header: unexpected item type %T", item)
	}

	var out []result.Result

	var first string
	if len(eb.Lines) > 0 {
		first = eb.Lines[0]
	}
	if m := copyrightRe.FindStringSubmatch(first); m == nil {
		out = append(out, result.NewInvalidCopyright(eb.Pkg, first))
	} else if strings.Contains(m[3], retiredHolder) {
		out = append(out, result.NewOldCopyright(eb.Pkg, first))
	}

	var second string
	if len(eb.Lines) > 1 {
		second = eb.Lines[1]
	}
	if second != licenseHeader {
		out = append(out, result.NewInvalidLicenseHeader(eb.Pkg, second))
	}
	return out, nil
}

func init() {
	checks.Register(&FileHeader{})
}
