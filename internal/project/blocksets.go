package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/treepack/internal/model"
)

// DefaultBlockSetPath returns the default file path for the block-set library.
// This is located at ~/.treepack/blocksets.json.
func DefaultBlockSetPath() string {
	return filepath.Join(DefaultConfigDir(), "blocksets.json")
}

// SaveBlockSets writes the block-set library to a JSON file.
func SaveBlockSets(path string, store model.BlockSetStore) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadBlockSets reads a block-set library from a JSON file.
// If the file does not exist, returns an empty store.
func LoadBlockSets(path string) (model.BlockSetStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewBlockSetStore(), nil
		}
		return model.BlockSetStore{}, err
	}
	var store model.BlockSetStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.BlockSetStore{}, err
	}
	if store.Sets == nil {
		store.Sets = []model.BlockSet{}
	}
	return store, nil
}
