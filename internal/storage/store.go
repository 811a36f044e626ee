package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv.zst"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string             `json:"id"`
	World       string             `json:"world"`
	Program     string             `json:"program"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	DurationMs  int                `json:"duration_ms"`
	Ticks       int64              `json:"ticks"`
	SensorNoise bool               `json:"sensor_noise"`
	MotorNoise  bool               `json:"motor_noise"`
	Samples     int                `json:"samples"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes meta and the trajectory under a fresh run id and returns it.
// ID, Timestamp and Samples are filled in by Save.
func (s *Store) Save(meta RunMetadata, samples []Sample) (string, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = time.Now()
	meta.Samples = len(samples)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	trajFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer trajFile.Close()

	if err := WriteTrajectory(trajFile, samples); err != nil {
		return "", fmt.Errorf("write trajectory: %w", err)
	}

	return meta.ID, nil
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadTrajectory(file)
}
