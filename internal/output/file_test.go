package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"pkgscan/internal/result"
)

func TestFileSinkInfersFormatFromExtension(t *testing.T) {
	dir := t.TempDir()

	ndjsonPath := filepath.Join(dir, "out.ndjson")
	s, err := NewFileSink(ndjsonPath, "")
	if err != nil {
		t.Fatalf("NewFileSink() error = %v", err)
	}
	_ = s.Write(result.LogError{Msg: "boom"})
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(ndjsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("ndjson line is not JSON: %v", err)
	}
	if rec.Kind != "LogError" {
		t.Errorf("record = %+v", rec)
	}

	jsonPath := filepath.Join(dir, "out.json")
	s, err = NewFileSink(jsonPath, "")
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Write(result.LogError{Msg: "boom"})
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("json file is not an array: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
}

func TestFileSinkRejectsUnknownFormat(t *testing.T) {
	if _, err := NewFileSink(filepath.Join(t.TempDir(), "out"), "xml"); err == nil {
		t.Error("NewFileSink() with xml format should fail")
	}
}
