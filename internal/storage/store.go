package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/san-kum/physim/internal/config"
	"github.com/san-kum/physim/internal/experiment"
	"github.com/san-kum/physim/internal/vec"
)

// ErrInvalidName rejects scene names and run ids that would leave the data
// directory.
var ErrInvalidName = errors.New("storage: invalid run name")

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

func (s *Store) path(runID, file string) (string, error) {
	if err := checkName(runID); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, runID, file), nil
}

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
	ID          string             `json:"id"`
	Scene       string             `json:"scene"`
	Timestamp   time.Time          `json:"timestamp"`
	Frames      int                `json:"frames"`
	Timestep    float64            `json:"timestep"`
	Bodies      []string           `json:"bodies"`
	Collisions  int                `json:"collisions"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Trajectory is the recorded states.csv of a run.
type Trajectory struct {
	Names     []string
	Times     []float64
	Energies  []float64
	Positions [][]vec.Vector3
}

// Save writes metadata.json, states.csv and the scene.yaml that produced
// the run into a new run directory and returns the run id.
func (s *Store) Save(cfg *config.Config, result *experiment.Result) (string, error) {
	if err := checkName(result.Scene); err != nil {
		return "", err
	}
	runID := fmt.Sprintf("%s_%s", result.Scene, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scene:       result.Scene,
		Timestamp:   time.Now(),
		Frames:      result.StepsTaken,
		Timestep:    cfg.Engine.Timestep,
		Bodies:      result.Names,
		Collisions:  result.Collisions,
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", errors.Wrap(err, "write metadata")
	}
	if err := config.Save(filepath.Join(runDir, "scene.yaml"), cfg); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, "states.csv"), result); err != nil {
		return "", errors.Wrap(err, "write states")
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func writeStates(path string, result *experiment.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time", "energy"}
	for _, name := range result.Names {
		header = append(header, name+"_x", name+"_y", name+"_z")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Times {
		row := []string{formatFloat(result.Times[i]), formatFloat(result.Energies[i])}
		for _, p := range result.Positions[i] {
			row = append(row, formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the runs under the base directory, newest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath, err := s.path(runID, "metadata.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "decode metadata of %s", runID)
	}

	return &meta, nil
}

// LoadScene returns the scene a run was produced from.
func (s *Store) LoadScene(runID string) (*config.Config, error) {
	p, err := s.path(runID, "scene.yaml")
	if err != nil {
		return nil, err
	}
	return config.Load(p)
}

func (s *Store) LoadStates(runID string) (*Trajectory, error) {
	csvPath, err := s.path(runID, "states.csv")
	if err != nil {
		return nil, err
	}
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read states of %s", runID)
	}

	traj := &Trajectory{}
	if len(records) == 0 {
		return traj, nil
	}

	header := records[0]
	if len(header) < 2 || (len(header)-2)%3 != 0 {
		return nil, errors.Errorf("states of %s: malformed header", runID)
	}
	for i := 2; i < len(header); i += 3 {
		name, ok := strings.CutSuffix(header[i], "_x")
		if !ok || name == "" {
			return nil, errors.Errorf("states of %s: malformed header column %q", runID, header[i])
		}
		traj.Names = append(traj.Names, name)
	}

	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		vals := make([]float64, len(record))
		ok := true
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		traj.Times = append(traj.Times, vals[0])
		traj.Energies = append(traj.Energies, vals[1])
		pos := make([]vec.Vector3, 0, len(traj.Names))
		for j := 2; j < len(vals); j += 3 {
			pos = append(pos, vec.New(vals[j], vals[j+1], vals[j+2]))
		}
		traj.Positions = append(traj.Positions, pos)
	}

	return traj, nil
}

// Series returns one coordinate (0=x, 1=y, 2=z) of the named body over time.
func (t *Trajectory) Series(name string, axis int) ([]float64, bool) {
	idx := -1
	for i, n := range t.Names {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 || axis < 0 || axis > 2 {
		return nil, false
	}
	out := make([]float64, len(t.Positions))
	for i, frame := range t.Positions {
		out[i] = frame[idx].Component(axis)
	}
	return out, true
}

// FromResult converts an in-memory run into a trajectory.
func FromResult(result *experiment.Result) *Trajectory {
	return &Trajectory{
		Names:     result.Names,
		Times:     result.Times,
		Energies:  result.Energies,
		Positions: result.Positions,
	}
}
