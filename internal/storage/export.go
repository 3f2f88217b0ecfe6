package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/pingsim/internal/automation"
)

type ExportData struct {
	RunMetadata
	Trace map[string][]float64 `json:"trace"`
}

// ExportJSON writes a stored run's metadata together with its trace.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	trace, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: *meta, Trace: trace})
}

func WriteTraceCSV(w io.Writer, trace []automation.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(automation.TraceColumns); err != nil {
		return err
	}
	row := make([]string, len(automation.TraceColumns))
	for _, s := range trace {
		for i, v := range s.Row() {
			row[i] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CopyTrace streams a stored run's trace CSV to w unchanged.
func (s *Store) CopyTrace(w io.Writer, runID string) error {
	f, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
