package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/eulersim/internal/analysis"
	"github.com/san-kum/eulersim/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
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
	ID          string           `json:"id"`
	Equation    string           `json:"equation"`
	Method      string           `json:"method"`
	Timestamp   time.Time        `json:"timestamp"`
	Rate        float64          `json:"rate"`
	T0          float64          `json:"t0"`
	Y0          float64          `json:"y0"`
	H           float64          `json:"h"`
	Steps       int              `json:"steps"`
	Evaluations int              `json:"evaluations"`
	Incomplete  bool             `json:"incomplete,omitempty"`
	Summary     analysis.Summary `json:"summary"`
}

// Save writes meta and tr under a fresh run directory and returns its id.
// ID, Timestamp, Method and Evaluations are filled in from the run. Summary
// statistics that overflowed are stored as absent. On failure nothing is
// left behind.
func (s *Store) Save(meta RunMetadata, tr *dynamo.Trajectory) (string, error) {
	if tr == nil {
		return "", fmt.Errorf("storage: nil trajectory")
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"rate", meta.Rate}, {"t0", meta.T0}, {"y0", meta.Y0}, {"h", meta.H}} {
		if !dynamo.IsFinite(f.v) {
			return "", &dynamo.ParameterError{Field: f.name, Value: f.v, Reason: "must be finite to be stored"}
		}
	}

	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Equation, now.UnixNano())
	meta.Timestamp = now
	meta.Method = tr.Stats.Method
	meta.Evaluations = tr.Stats.Evaluations
	meta.Incomplete = tr.Incomplete
	meta.Summary = meta.Summary.Finite()

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err == nil {
		err = writeFile(filepath.Join(runDir, trajectoryFile), func(w io.Writer) error {
			return ExportCSV(w, tr)
		})
	}
	if err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("storage: save %s: %w", meta.ID, err)
	}

	return meta.ID, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) {
		return "", dynamo.InvalidParameter("invalid run id: %q", runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

// ExportCSV writes a "t,y" header and one row per point. Values use the
// shortest representation that parses back to the same float64.
func ExportCSV(w io.Writer, tr *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"t", "y"}); err != nil {
		return err
	}
	for _, p := range tr.Points {
		row := []string{
			strconv.FormatFloat(p.T, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) (*dynamo.Trajectory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	tr := &dynamo.Trajectory{}
	if len(records) < 2 {
		return tr, nil
	}

	tr.Points = make([]dynamo.Point, 0, len(records)-1)
	for i, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: row %d: %w", i+1, err)
		}
		y, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: row %d: %w", i+1, err)
		}
		tr.Points = append(tr.Points, dynamo.Point{T: t, Y: y})
	}

	return tr, nil
}
