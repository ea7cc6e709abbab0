// Package store persists environment intent snapshots.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/manifold/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.IntentStore with one JSON file per environment directory.
type Store struct{}

var _ ports.IntentStore = (*Store)(nil)

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the snapshot persisted in envDir, or nil if there is none.
func (s *Store) Get(envDir string) (*domain.IntentSnapshot, error) {
	filename := s.filename(envDir)
	//nolint:gosec // Path is constructed from the project root and a validated environment name
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		err = zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
		return nil, zerr.With(err, "path", filename)
	}

	var snapshot domain.IntentSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		err = zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error())
		return nil, zerr.With(err, "path", filename)
	}

	return &snapshot, nil
}

// Put writes snapshot to envDir, creating the directory when needed.
// The stored fingerprint is recomputed from the content.
func (s *Store) Put(envDir string, snapshot *domain.IntentSnapshot) error {
	fingerprint, err := s.Fingerprint(snapshot)
	if err != nil {
		return err
	}

	stored := *snapshot
	stored.Fingerprint = fingerprint

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	if err := os.MkdirAll(envDir, domain.DirPerm); err != nil {
		err = zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
		return zerr.With(err, "path", envDir)
	}

	filename := s.filename(envDir)
	tmp := filename + ".tmp"
	//nolint:gosec // Path is constructed from the project root and a validated environment name
	if err := os.WriteFile(tmp, append(data, '\n'), domain.FilePerm); err != nil {
		err = zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
		return zerr.With(err, "path", tmp)
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp)
		err = zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
		return zerr.With(err, "path", filename)
	}

	return nil
}

// Fingerprint hashes the canonical JSON form of snapshot, ignoring any stored fingerprint.
func (s *Store) Fingerprint(snapshot *domain.IntentSnapshot) (string, error) {
	canonical := *snapshot
	canonical.Fingerprint = ""

	data, err := json.Marshal(canonical)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	return strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

func (s *Store) filename(envDir string) string {
	return filepath.Join(envDir, domain.IntentFileName)
}
