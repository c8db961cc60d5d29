package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/planora/planora/internal/model"
)

func TestPlanKey(t *testing.T) {
	if got := PlanKey("doc-42"); got != "doc-42_plan.json" {
		t.Errorf("PlanKey = %q", got)
	}
}

func TestDiskStore_Roundtrip(t *testing.T) {
	s := NewDiskStore(t.TempDir())

	data := []byte(`{"document_id":"d"}`)
	if err := s.Save("d_plan.json", data); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load("d_plan.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("loaded %q, want %q", got, data)
	}
}

func TestDiskStore_CreatesDirOnFirstSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "artifacts")
	s := NewDiskStore(dir)

	if err := s.Save("k", []byte("v")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "k")); err != nil {
		t.Errorf("artifact file missing: %v", err)
	}
}

func TestDiskStore_MissingKey(t *testing.T) {
	s := NewDiskStore(t.TempDir())

	if _, err := s.Load("nope"); err == nil {
		t.Error("expected error for missing artifact")
	}
}

func TestMemoryStore_Roundtrip(t *testing.T) {
	s := NewMemoryStore(0)

	if err := s.Save("k", []byte("v")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load("k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("loaded %q", got)
	}

	if _, err := s.Load("missing"); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	s.Save("k", []byte("v"))

	time.Sleep(30 * time.Millisecond)

	if _, err := s.Load("k"); err == nil {
		t.Error("expected entry to expire")
	}
}

func TestLayeredStore_DiskIsAuthoritative(t *testing.T) {
	dir := t.TempDir()
	s := NewLayeredStore(dir, 0)

	if err := s.Save("k", []byte("v")); err != nil {
		t.Fatalf("save: %v", err)
	}

	// The artifact must exist on disk, not only in memory.
	if _, err := os.Stat(filepath.Join(dir, "k")); err != nil {
		t.Errorf("disk layer missing artifact: %v", err)
	}
}

func TestLayeredStore_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// Seed disk directly, then read through a fresh layered store whose
	// memory layer is cold.
	if err := NewDiskStore(dir).Save("k", []byte("v")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s := NewLayeredStore(dir, 0)
	got, err := s.Load("k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("loaded %q", got)
	}

	// Second load must hit memory: remove the disk file and read again.
	os.Remove(filepath.Join(dir, "k"))
	if _, err := s.Load("k"); err != nil {
		t.Errorf("expected memory promotion to serve the key: %v", err)
	}
}

func TestSaveJSON_PlanShape(t *testing.T) {
	s := NewMemoryStore(0)

	p := model.Plan{
		DocumentID:    "doc-1",
		Version:       "v1",
		Rules:         []model.Rule{{ID: "RULE-001", Type: "obligation", Statement: "s", Confidence: "high"}},
		OpenQuestions: []model.OpenQuestion{},
	}

	if err := SaveJSON(s, PlanKey(p.DocumentID), p); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := s.Load("doc-1_plan.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var got model.Plan
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.DocumentID != "doc-1" || len(got.Rules) != 1 || got.Rules[0].ID != "RULE-001" {
		t.Errorf("roundtripped plan mismatch: %+v", got)
	}

	// Persisted artifacts are indented for human review.
	if !bytes.Contains(data, []byte("\n  ")) {
		t.Error("expected indented JSON on disk")
	}
}
