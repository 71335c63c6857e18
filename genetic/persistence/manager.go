package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/djefts/pacmanAI/parameter"
)

// ErrNotFound is returned when no record exists for an id
var ErrNotFound = errors.New("persistence: run record not found")

// Manager handles save/load of run records under one directory
type Manager struct {
	basePath string
}

// NewManager creates a manager with the given base directory
func NewManager(basePath string) *Manager {
	if basePath == "" {
		basePath = parameter.GeneticRecordPath
	}
	return &Manager{basePath: basePath}
}

// FilePath returns the path for a record id
func (m *Manager) FilePath(id string) string {
	return filepath.Join(m.basePath, id+parameter.GeneticRecordExt)
}

// Exists checks if a record file exists
func (m *Manager) Exists(id string) bool {
	_, err := os.Stat(m.FilePath(id))
	return err == nil
}

// Save writes rec to disk, assigning an id when it has none.
// Returns the id the record was stored under.
func (m *Manager) Save(rec RunRecord) (string, error) {
	if rec.ID == "" {
		id, err := NewID()
		if err != nil {
			return "", err
		}
		rec.ID = id
	}

	if err := os.MkdirAll(m.basePath, 0755); err != nil {
		return "", err
	}

	data, err := msgpack.Marshal(&rec)
	if err != nil {
		return "", fmt.Errorf("encode run record: %w", err)
	}

	if err := os.WriteFile(m.FilePath(rec.ID), data, 0644); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Load reads a record by id
func (m *Manager) Load(id string) (RunRecord, error) {
	var rec RunRecord

	data, err := os.ReadFile(m.FilePath(id))
	if errors.Is(err, os.ErrNotExist) {
		return rec, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return rec, err
	}

	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decode run record %s: %w", id, err)
	}
	return rec, nil
}

// LoadFile reads a record from an explicit path
func LoadFile(path string) (RunRecord, error) {
	dir, file := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return NewManager(dir).Load(strings.TrimSuffix(file, parameter.GeneticRecordExt))
}

// SaveFile writes rec to an explicit path; the file name becomes its id
func SaveFile(path string, rec RunRecord) error {
	dir, file := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	rec.ID = strings.TrimSuffix(file, parameter.GeneticRecordExt)
	_, err := NewManager(dir).Save(rec)
	return err
}

// List returns stored record ids in lexical order
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.basePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, parameter.GeneticRecordExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, parameter.GeneticRecordExt))
	}
	sort.Strings(ids)
	return ids, nil
}
