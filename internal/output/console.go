package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"pkgscan/internal/result"
)

var levelColors = map[result.Level]*color.Color{
	result.LevelError:   color.New(color.FgRed),
	result.LevelWarning: color.New(color.FgYellow),
	result.LevelInfo:    color.New(color.FgGreen),
}

// ConsoleSink renders results for humans (text) or machines (json, ndjson).
type ConsoleSink struct {
	writer        io.Writer
	format        string // "text", "json", "ndjson"
	mu            sync.Mutex
	records       []Record // for JSON array output
	allowedLevels map[result.Level]bool
}

func NewConsoleSink(w io.Writer, format string, filterLevels []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{
		writer: w,
		format: format,
	}

	if len(filterLevels) > 0 {
		s.allowedLevels = make(map[result.Level]bool)
		for _, l := range filterLevels {
			s.allowedLevels[result.Level(strings.ToLower(l))] = true
		}
	}

	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.allowedLevels) > 0 {
		if r, ok := v.(result.Result); ok && !s.allowedLevels[r.Level()] {
			return nil
		}
	}

	switch s.format {
	case "json":
		if r, ok := v.(result.Result); ok {
			s.records = append(s.records, recordFromResult(r))
		}
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			return encoder.Encode(t)
		case result.Result:
			return encoder.Encode(recordFromResult(t))
		default:
			return nil
		}
	case "text":
		r, ok := v.(result.Result)
		if !ok {
			// Events are only rendered by structured formats.
			return nil
		}
		c, found := levelColors[r.Level()]
		if !found {
			c = color.New()
		}
		if entity := r.Entity(); entity != "" {
			if _, err := fmt.Fprintf(s.writer, "%s: ", entity); err != nil {
				return err
			}
		}
		if _, err := c.Fprint(s.writer, r.Kind()); err != nil {
			return err
		}
		_, err := fmt.Fprintf(s.writer, ": %s\n", r.Desc())
		return err
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s.records)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
