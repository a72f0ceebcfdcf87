// Package result defines the closed set of result kinds checks can produce.
//
// Every result is a concrete struct; there is no open registration of new
// kinds at runtime. The only registry is the static metadata-attribute table
// below, which is validated at init and panics on duplicates.
package result

import "fmt"

// Level is the severity of a result.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Color names the console color conventionally used for a level.
func (l Level) Color() string {
	switch l {
	case LevelError:
		return "red"
	case LevelWarning:
		return "yellow"
	default:
		return "green"
	}
}

// Result is one finding produced by a check or by the runner itself.
type Result interface {
	// Kind identifies the result variant, stable across runs.
	Kind() string
	Level() Level
	// Entity names what the result is about (cat/pkg-ver, cat/pkg, a commit
	// hash, ...); empty for run-level diagnostics.
	Entity() string
	Desc() string
}

// metadataAttrKinds maps a metadata attribute to the result kind reporting
// it. The table is closed; registering an attribute twice is a programming
// error and fails fast at startup.
var metadataAttrKinds = map[string]string{}

func registerMetadataAttr(attr, kind string) {
	if prev, ok := metadataAttrKinds[attr]; ok {
		panic(fmt.Sprintf("metadata attribute %q already registered to %s", attr, prev))
	}
	metadataAttrKinds[attr] = kind
}

func init() {
	registerMetadataAttr("build", "MetadataError")
	registerMetadataAttr("parse", "MetadataError")
}

// KindForMetadataAttr resolves the result kind handling a metadata
// attribute; unknown attributes fall back to the generic MetadataError.
func KindForMetadataAttr(attr string) string {
	if kind, ok := metadataAttrKinds[attr]; ok {
		return kind
	}
	return "MetadataError"
}
