package output

import "pkgscan/internal/result"

// Event is a run-lifecycle notification for structured sinks.
type Event struct {
	Type      string `json:"type"`
	Checks    int    `json:"checks,omitempty"`
	Pipelines int    `json:"pipelines,omitempty"`
	ExitCode  int    `json:"exit_code,omitempty"`
}

// Record is the serializable view of a result.
type Record struct {
	Kind   string `json:"kind"`
	Level  string `json:"level"`
	Entity string `json:"entity,omitempty"`
	Desc   string `json:"desc"`
}

func recordFromResult(r result.Result) Record {
	return Record{
		Kind:   r.Kind(),
		Level:  string(r.Level()),
		Entity: r.Entity(),
		Desc:   r.Desc(),
	}
}
