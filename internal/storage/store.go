package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/pingsim/internal/automation"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

// Store keeps run reports, one directory per run. Reports are telemetry:
// nothing in them can be turned back into a running scene.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Scenario      string             `json:"scenario"`
	Preset        string             `json:"preset,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	FixedStep     float64            `json:"fixed_step"`
	Duration      float64            `json:"duration"`
	Frames        int                `json:"frames"`
	Score         int                `json:"score"`
	Spheres       int                `json:"spheres"`
	SoundsPlayed  int                `json:"sounds_played"`
	SoundsIgnored int                `json:"sounds_ignored"`
	PeakImpact    float64            `json:"peak_impact"`
	Metrics       map[string]float64 `json:"metrics"`
}

func metadataOf(id string, r *automation.Report) RunMetadata {
	return RunMetadata{
		ID:            id,
		Scenario:      r.Scenario,
		Preset:        r.Preset,
		Timestamp:     time.Now(),
		Seed:          r.Seed,
		FixedStep:     r.FixedStep,
		Duration:      r.Duration,
		Frames:        r.Frames,
		Score:         r.Score,
		Spheres:       r.Spheres,
		SoundsPlayed:  r.SoundsPlayed,
		SoundsIgnored: r.SoundsIgnored,
		PeakImpact:    r.PeakImpact,
		Metrics:       r.Metrics,
	}
}

// Save writes the report's metadata and trace and returns the run id.
func (s *Store) Save(r *automation.Report) (string, error) {
	name := r.Scenario
	if name == "" {
		name = "run"
	}
	base := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runID := base
	for n := 2; ; n++ {
		err := os.Mkdir(filepath.Join(s.baseDir, runID), 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
		runID = fmt.Sprintf("%s-%d", base, n)
	}
	runDir := filepath.Join(s.baseDir, runID)

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(metadataOf(runID, r)); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	if err := WriteTraceCSV(csvFile, r.Trace); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrace reads a run's trace as named columns.
func (s *Store) LoadTrace(runID string) (map[string][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	cols := make(map[string][]float64)
	if len(records) == 0 {
		return cols, nil
	}
	header := records[0]
	for _, name := range header {
		cols[name] = make([]float64, 0, len(records)-1)
	}
	for _, record := range records[1:] {
		for j, field := range record {
			if j >= len(header) {
				break
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", runID, header[j], err)
			}
			cols[header[j]] = append(cols[header[j]], v)
		}
	}
	return cols, nil
}
