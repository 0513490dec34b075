// Package file provides a registry.Store keeping one text file per automaton.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wolever/automaton"
	"github.com/wolever/automaton/registry"
)

// Ext is the extension of automaton files.
const Ext = ".fa"

// Store implements registry.Store on the local filesystem. Every automaton is
// kept in BasePath/<name>.fa in the text form of automaton.Format.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".automata".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = ".automata"
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(name string) (string, error) {
	if !registry.ValidName(name) {
		return "", fmt.Errorf("%w: %q", registry.ErrInvalidName, name)
	}
	return filepath.Join(s.BasePath, name+Ext), nil
}

// Save writes the automaton atomically: the text is written and synced to a
// temporary file in the same directory, which is then renamed over the
// destination.
func (s *Store) Save(ctx context.Context, name string, a *automaton.Automaton) error {
	destPath, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure store directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.BasePath, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := a.WriteTo(tmpFile); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// os.Rename fails on Windows if the destination exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing automaton file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load parses BasePath/<name>.fa.
func (s *Store) Load(ctx context.Context, name string) (*automaton.Automaton, error) {
	filePath, err := s.path(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, registry.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open automaton file: %w", err)
	}
	defer f.Close()

	a, err := automaton.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	return a, nil
}

// Delete removes the automaton file.
func (s *Store) Delete(ctx context.Context, name string) error {
	filePath, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete automaton file: %w", err)
	}
	return nil
}

// List returns the names of the automaton files in BasePath.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list automata: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Ext {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), Ext)
		if registry.ValidName(name) {
			names = append(names, name)
		}
	}
	return names, nil
}
