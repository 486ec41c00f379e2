// Package file persists topologies as YAML files on the local
// filesystem, one file per graph name.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/calyptra/synapse/pkg/plasm"
	"github.com/calyptra/synapse/pkg/storage"
)

const ext = ".yaml"

// Store implements storage.TopologyStore using a directory of YAML files.
type Store struct {
	BasePath string
}

// New creates a Store rooted at basePath. An empty path defaults to
// ".synapse/graphs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".synapse", "graphs")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.BasePath, name+ext)
}

// Save writes the document atomically: to a temp file in the same
// directory first, fsynced, then renamed over the destination.
func (s *Store) Save(ctx context.Context, name string, doc plasm.Document) error {
	if name == "" {
		return fmt.Errorf("graph name cannot be empty")
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("ensure graph directory: %w", err)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal topology: %w", err)
	}

	tmp, err := os.CreateTemp(s.BasePath, "tmp-"+name+"-*"+ext)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync temp file: %w", err)
	}
	// Rename of an open file fails on Windows.
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(name)); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads and decodes the named topology.
func (s *Store) Load(ctx context.Context, name string) (plasm.Document, error) {
	if name == "" {
		return plasm.Document{}, fmt.Errorf("graph name cannot be empty")
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return plasm.Document{}, storage.ErrNotFound
		}
		return plasm.Document{}, fmt.Errorf("read graph file: %w", err)
	}
	var doc plasm.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return plasm.Document{}, fmt.Errorf("unmarshal topology: %w", err)
	}
	return doc, nil
}

// Delete removes the named topology. Deleting a missing name is not an
// error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("graph name cannot be empty")
	}
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete graph file: %w", err)
	}
	return nil
}

// List returns the stored graph names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) ||
			strings.HasPrefix(entry.Name(), "tmp-") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}
