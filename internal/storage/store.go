package storage

import (
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"github.com/san-kum/dpend/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var (
	ErrRunNotFound  = errors.New("storage: run not found")
	ErrAmbiguousRun = errors.New("storage: run id prefix is ambiguous")
	ErrChecksum     = errors.New("storage: trajectory does not match its checksum")
)

// Header is the column layout of trajectory.csv.
var Header = []string{"t", "theta1", "omega1", "theta2", "omega2"}

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
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Params    dynamo.Params      `json:"params"`
	Initial   dynamo.State       `json:"initial"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Method    string             `json:"method"`
	Tolerance dynamo.Tolerance   `json:"tolerance"`
	Samples   int                `json:"samples"`
	Checksum  string             `json:"checksum"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes the trajectory and its metadata under a fresh run id. ID,
// Timestamp, Samples and Checksum in meta are filled in.
func (s *Store) Save(meta RunMetadata, tr *dynamo.Trajectory) (string, error) {
	meta.ID = uuid.NewString()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Samples = tr.Len()
	meta.Checksum = Checksum(tr)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := writeRun(runDir, meta, tr); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return meta.ID, nil
}

// writeRun writes the trajectory before the metadata, so a run directory
// with metadata always holds a complete trajectory.
func writeRun(runDir string, meta RunMetadata, tr *dynamo.Trajectory) error {
	if err := ExportCSV(filepath.Join(runDir, trajectoryFile), tr); err != nil {
		return err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return err
	}
	return metaFile.Close()
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

		meta, err := s.readMetadata(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Resolve expands a unique id prefix to the full run id.
func (s *Store) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", ErrRunNotFound
	}
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrRunNotFound
		}
		return "", err
	}

	match := ""
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if entry.Name() == prefix {
			return prefix, nil
		}
		if match != "" {
			return "", fmt.Errorf("%w: %s", ErrAmbiguousRun, prefix)
		}
		match = entry.Name()
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	}
	return match, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	id, err := s.Resolve(runID)
	if err != nil {
		return nil, err
	}
	return s.readMetadata(id)
}

// LoadTrajectory reads a stored run back into a trajectory.
func (s *Store) LoadTrajectory(runID string) (*RunMetadata, *dynamo.Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, meta.ID, trajectoryFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	tr, err := ReadCSV(file)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", meta.ID, err)
	}
	if meta.Checksum != "" && Checksum(tr) != meta.Checksum {
		return nil, nil, fmt.Errorf("run %s: %w", meta.ID, ErrChecksum)
	}
	tr.Params = meta.Params
	tr.Dt = meta.Dt
	return meta, tr, nil
}

// Checksum fingerprints the exact bits of every sample time and state.
// Two bit-identical trajectories share a checksum.
func Checksum(tr *dynamo.Trajectory) string {
	buf := make([]byte, 0, tr.Len()*5*8)
	for _, s := range tr.Samples {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(s.Time))
		for _, v := range s.State {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
	}
	return fmt.Sprintf("%016x", xxh3.Hash(buf))
}

func (s *Store) readMetadata(id string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ExportCSV writes tr to path in the trajectory.csv layout.
func ExportCSV(path string, tr *dynamo.Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(file, tr); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV writes one row per sample with full float precision so that a
// read back reproduces the trajectory exactly.
func WriteCSV(w io.Writer, tr *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	row := make([]string, len(Header))
	for _, s := range tr.Samples {
		row[0] = strconv.FormatFloat(s.Time, 'g', -1, 64)
		for j, v := range s.State {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
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
	cr.FieldsPerRecord = len(Header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("missing header")
	}

	tr := &dynamo.Trajectory{Samples: make([]dynamo.Sample, 0, len(records)-1)}
	for i, record := range records[1:] {
		var vals [5]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, Header[j], err)
			}
			vals[j] = v
		}
		tr.Samples = append(tr.Samples, dynamo.Sample{
			Time:  vals[0],
			State: dynamo.State{vals[1], vals[2], vals[3], vals[4]},
		})
	}
	return tr, nil
}
