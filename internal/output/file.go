package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pkgscan/internal/result"
)

// FileSink writes structured output to a file: a JSON array or an NDJSON
// stream, inferred from the file extension when the format is empty.
type FileSink struct {
	file    *os.File
	format  string
	mu      sync.Mutex
	records []Record
}

func NewFileSink(path, format string) (*FileSink, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ndjson", ".jsonl":
			format = "ndjson"
		default:
			format = "json"
		}
	}
	if format != "json" && format != "ndjson" {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return &FileSink{file: f, format: format}, nil
}

func (s *FileSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.format {
	case "json":
		if r, ok := v.(result.Result); ok {
			s.records = append(s.records, recordFromResult(r))
		}
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.file)
		switch t := v.(type) {
		case Event:
			return encoder.Encode(t)
		case result.Result:
			return encoder.Encode(recordFromResult(t))
		}
		return nil
	}
	return fmt.Errorf("unsupported output format: %s", s.format)
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s.records); err != nil {
			s.file.Close()
			return err
		}
	}
	return s.file.Close()
}
