package result

import (
	"errors"
	"strings"
	"testing"

	"pkgscan/internal/repo"
)

func TestRegisterMetadataAttrDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("duplicate attribute registration did not panic")
		}
	}()
	registerMetadataAttr("build", "SomethingElse")
}

func TestKindForMetadataAttr(t *testing.T) {
	if got := KindForMetadataAttr("build"); got != "MetadataError" {
		t.Errorf("KindForMetadataAttr(build) = %s", got)
	}
	if got := KindForMetadataAttr("unknown-attr"); got != "MetadataError" {
		t.Errorf("KindForMetadataAttr(unknown-attr) = %s", got)
	}
}

func TestNewMetadataErrorCollapsesNewlines(t *testing.T) {
	pkg := &repo.Package{Category: "dev-libs", Name: "libfoo", Version: "1.0"}
	r := NewMetadataError(&repo.MetadataError{
		Pkg:  pkg,
		Attr: "build",
		Err:  errors.New("line one\nline two"),
	})

	if strings.Contains(r.Desc(), "\n") {
		t.Errorf("Desc() contains a newline: %q", r.Desc())
	}
	if !strings.Contains(r.Desc(), "line one: line two") {
		t.Errorf("Desc() = %q, want collapsed message", r.Desc())
	}
	if r.Entity() != "dev-libs/libfoo-1.0" {
		t.Errorf("Entity() = %s", r.Entity())
	}
	if r.Level() != LevelError {
		t.Errorf("Level() = %s", r.Level())
	}
}

func TestEntityFormatting(t *testing.T) {
	pkg := &repo.Package{Category: "dev-libs", Name: "libfoo", Version: "1.0"}

	if got := NewMaskedPackage(pkg).Entity(); got != "dev-libs/libfoo-1.0" {
		t.Errorf("version entity = %s", got)
	}
	if got := NewPotentiallyUnusedFile(pkg, "f.patch").Entity(); got != "dev-libs/libfoo" {
		t.Errorf("package entity = %s", got)
	}
	if got := (EmptyCategory{Category: "app-misc"}).Entity(); got != "app-misc" {
		t.Errorf("category entity = %s", got)
	}
	if got := (LogWarning{Msg: "x"}).Entity(); got != "" {
		t.Errorf("run-level entity = %q, want empty", got)
	}
}
