package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/semodel/internal/config"
)

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
	ID           string             `json:"id"`
	Preset       string             `json:"preset,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	Steps        int                `json:"steps"`
	Config       *config.Config     `json:"config"`
	Stakeholders map[string]int     `json:"stakeholders"`
	Final        map[string]float64 `json:"final"`
	Ratio        float64            `json:"positive_negative_ratio"`
}

// Run is what gets persisted for one simulation.
type Run struct {
	Preset       string
	Seed         int64
	Steps        int
	Config       *config.Config
	Stakeholders map[string]int
	Ratio        float64
	Metrics      []string
	Histories    map[string][]float64
}

// Save writes metadata.json and history.csv (one row per tick, one column
// per metric in r.Metrics order) under a new run directory.
func (s *Store) Save(r Run) (string, error) {
	name := r.Preset
	if name == "" {
		name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d_%d_%s", name, now.Unix(), r.Seed, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", err
	}
	// Mkdir fails on an existing directory, so a run is never overwritten.
	if err := os.Mkdir(runDir, 0755); err != nil {
		return "", err
	}

	final := make(map[string]float64, len(r.Metrics))
	for _, m := range r.Metrics {
		if h := r.Histories[m]; len(h) > 0 {
			final[m] = h[len(h)-1]
		}
	}

	meta := RunMetadata{
		ID:           runID,
		Preset:       r.Preset,
		Timestamp:    now,
		Seed:         r.Seed,
		Steps:        r.Steps,
		Config:       r.Config,
		Stakeholders: r.Stakeholders,
		Final:        final,
		Ratio:        r.Ratio,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "history.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := WriteHistoryCSV(w, r.Metrics, r.Histories); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteHistoryCSV writes a tick column followed by one column per metric.
func WriteHistoryCSV(w *csv.Writer, names []string, histories map[string][]float64) error {
	header := append([]string{"tick"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	rows := 0
	for _, n := range names {
		if len(histories[n]) > rows {
			rows = len(histories[n])
		}
	}

	for i := 0; i < rows; i++ {
		row := []string{strconv.Itoa(i)}
		for _, n := range names {
			val := 0.0
			if h := histories[n]; i < len(h) {
				val = h[i]
			}
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

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

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadHistory reads history.csv back into metric names and per-metric series.
func (s *Store) LoadHistory(runID string) ([]string, map[string][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "history.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) == 0 {
		return []string{}, map[string][]float64{}, nil
	}

	names := records[0][1:]
	histories := make(map[string][]float64, len(names))
	for _, n := range names {
		histories[n] = make([]float64, 0, len(records)-1)
	}

	for _, record := range records[1:] {
		for j := 1; j < len(record) && j <= len(names); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("history %s row %s: %w", runID, record[0], err)
			}
			histories[names[j-1]] = append(histories[names[j-1]], val)
		}
	}

	return names, histories, nil
}
