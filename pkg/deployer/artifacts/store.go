package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// Store indexes every artifact under a directory by contract name.
type Store struct {
	fs    afero.Fs
	index map[string]string

	mtx   sync.Mutex
	cache map[string]*Artifact
}

func NewStore(fs afero.Fs, root string) (*Store, error) {
	index := make(map[string]string)
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		name := info.Name()
		if !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".dbg.json") {
			return nil
		}
		contract := strings.TrimSuffix(name, ".json")
		if _, ok := index[contract]; !ok {
			index[contract] = path
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to index artifacts in %s: %w", root, err)
	}
	return &Store{
		fs:    fs,
		index: index,
		cache: make(map[string]*Artifact),
	}, nil
}

func NewStoreFromLocator(fs afero.Fs, loc *Locator) (*Store, error) {
	return NewStore(fs, loc.Path())
}

func (s *Store) Load(contract string) (*Artifact, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if art, ok := s.cache[contract]; ok {
		return art, nil
	}
	path, ok := s.index[contract]
	if !ok {
		return nil, fmt.Errorf("no artifact found for contract %s", contract)
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	art, err := ParseArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	if art.ContractName == "" {
		art.ContractName = contract
	}
	s.cache[contract] = art
	return art, nil
}
