package result

import (
	"fmt"
	"strings"

	"pkgscan/internal/repo"
)

// pkgAttrs carries optional entity attribution for package-related results.
type pkgAttrs struct {
	Category string
	Package  string
	Version  string
}

func versionAttrs(p *repo.Package) pkgAttrs {
	return pkgAttrs{Category: p.Category, Package: p.Name, Version: p.Version}
}

func packageAttrs(p *repo.Package) pkgAttrs {
	return pkgAttrs{Category: p.Category, Package: p.Name}
}

func (a pkgAttrs) Entity() string {
	var b strings.Builder
	b.WriteString(a.Category)
	if a.Package != "" {
		b.WriteString("/")
		b.WriteString(a.Package)
	}
	if a.Version != "" {
		b.WriteString("-")
		b.WriteString(a.Version)
	}
	return b.String()
}

// MetadataError reports malformed metadata for a specific package version.
// It is synthesized by check runners from recoverable per-item failures.
type MetadataError struct {
	pkgAttrs
	Attr string
	Msg  string
}

func NewMetadataError(err *repo.MetadataError) MetadataError {
	// collapse multi-line error text into one line
	msg := strings.Join(strings.Split(err.Err.Error(), "\n"), ": ")
	return MetadataError{pkgAttrs: versionAttrs(err.Pkg), Attr: err.Attr, Msg: msg}
}

func (r MetadataError) Kind() string { return "MetadataError" }
func (r MetadataError) Level() Level { return LevelError }
func (r MetadataError) Desc() string {
	return fmt.Sprintf("attr(%s): %s", r.Attr, r.Msg)
}

// LogWarning is a run-level diagnostic, e.g. a check that could not be
// wired to any source.
type LogWarning struct {
	Msg string
}

func (r LogWarning) Kind() string   { return "LogWarning" }
func (r LogWarning) Level() Level   { return LevelWarning }
func (r LogWarning) Entity() string { return "" }
func (r LogWarning) Desc() string   { return r.Msg }

// LogError is a run-level error diagnostic.
type LogError struct {
	Msg string
}

func (r LogError) Kind() string   { return "LogError" }
func (r LogError) Level() Level   { return LevelError }
func (r LogError) Entity() string { return "" }
func (r LogError) Desc() string   { return r.Msg }

// PotentiallyUnusedFile flags a file under files/ that no version of the
// package references.
type PotentiallyUnusedFile struct {
	pkgAttrs
	File string
}

func NewPotentiallyUnusedFile(p *repo.Package, file string) PotentiallyUnusedFile {
	return PotentiallyUnusedFile{pkgAttrs: packageAttrs(p), File: file}
}

func (r PotentiallyUnusedFile) Kind() string { return "PotentiallyUnusedFile" }
func (r PotentiallyUnusedFile) Level() Level { return LevelWarning }
func (r PotentiallyUnusedFile) Desc() string {
	return fmt.Sprintf("potentially unused file in files/: %s", r.File)
}

// InvalidCopyright reports a build file whose first line is not a valid
// copyright line.
type InvalidCopyright struct {
	pkgAttrs
	Line string
}

func NewInvalidCopyright(p *repo.Package, line string) InvalidCopyright {
	return InvalidCopyright{pkgAttrs: versionAttrs(p), Line: line}
}

func (r InvalidCopyright) Kind() string { return "InvalidCopyright" }
func (r InvalidCopyright) Level() Level { return LevelError }
func (r InvalidCopyright) Desc() string {
	return fmt.Sprintf("invalid copyright: %q", r.Line)
}

// OldCopyright reports a build file still naming a retired copyright holder.
type OldCopyright struct {
	pkgAttrs
	Line string
}

func NewOldCopyright(p *repo.Package, line string) OldCopyright {
	return OldCopyright{pkgAttrs: versionAttrs(p), Line: line}
}

func (r OldCopyright) Kind() string { return "OldCopyright" }
func (r OldCopyright) Level() Level { return LevelWarning }
func (r OldCopyright) Desc() string {
	return fmt.Sprintf("outdated copyright holder: %q", r.Line)
}

// InvalidLicenseHeader reports a build file without the required license
// header line.
type InvalidLicenseHeader struct {
	pkgAttrs
	Line string
}

func NewInvalidLicenseHeader(p *repo.Package, line string) InvalidLicenseHeader {
	return InvalidLicenseHeader{pkgAttrs: versionAttrs(p), Line: line}
}

func (r InvalidLicenseHeader) Kind() string { return "InvalidLicenseHeader" }
func (r InvalidLicenseHeader) Level() Level { return LevelError }
func (r InvalidLicenseHeader) Desc() string {
	return fmt.Sprintf("invalid license header: %q", r.Line)
}

// MaskedPackage notes a version that is masked but still in the tree.
type MaskedPackage struct {
	pkgAttrs
}

func NewMaskedPackage(p *repo.Package) MaskedPackage {
	return MaskedPackage{pkgAttrs: versionAttrs(p)}
}

func (r MaskedPackage) Kind() string { return "MaskedPackage" }
func (r MaskedPackage) Level() Level { return LevelInfo }
func (r MaskedPackage) Desc() string {
	return "package is masked but still present in the tree"
}

// DuplicateFiles reports an identical files/ payload shared by sibling
// packages in one category.
type DuplicateFiles struct {
	Category string
	File     string
	Packages []string
}

func (r DuplicateFiles) Kind() string   { return "DuplicateFiles" }
func (r DuplicateFiles) Level() Level   { return LevelWarning }
func (r DuplicateFiles) Entity() string { return r.Category }
func (r DuplicateFiles) Desc() string {
	return fmt.Sprintf("file %s duplicated across packages: %s",
		r.File, strings.Join(r.Packages, ", "))
}

// EmptyCategory reports a category directory with no packages.
type EmptyCategory struct {
	Category string
}

func (r EmptyCategory) Kind() string   { return "EmptyCategory" }
func (r EmptyCategory) Level() Level   { return LevelWarning }
func (r EmptyCategory) Entity() string { return r.Category }
func (r EmptyCategory) Desc() string {
	return "category contains no packages"
}

// BadCommitSummary reports a commit whose summary line violates the
// repository's conventions.
type BadCommitSummary struct {
	Commit string
	Msg    string
}

func (r BadCommitSummary) Kind() string   { return "BadCommitSummary" }
func (r BadCommitSummary) Level() Level   { return LevelWarning }
func (r BadCommitSummary) Entity() string { return r.Commit }
func (r BadCommitSummary) Desc() string   { return r.Msg }
