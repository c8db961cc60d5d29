// Package store persists plan artifacts behind a uniform
// save/load-by-key contract. Backends are pluggable: local filesystem,
// in-memory, or both layered.
package store

import (
	"encoding/json"
	"fmt"
)

// Store is the key->blob artifact contract the pipeline writes plans to
type Store interface {
	Save(key string, data []byte) error
	Load(key string) ([]byte, error)
}

// PlanKey derives the storage key for a document's plan
func PlanKey(documentID string) string {
	return documentID + "_plan.json"
}

// SaveJSON marshals v with indentation and saves it under key
func SaveJSON(s Store, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	if err := s.Save(key, data); err != nil {
		return fmt.Errorf("save artifact %s: %w", key, err)
	}
	return nil
}
