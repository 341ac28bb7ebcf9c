// Package testsupport holds helpers shared by package tests: item fixtures,
// collection files and golden file comparison.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-itemstore/item"
)

// UpdateGoldenEnv, when set to a non-empty value, makes CompareWithGolden
// rewrite golden files instead of comparing against them.
const UpdateGoldenEnv = "ITEMSTORE_UPDATE_GOLDEN"

// SampleItems returns a fresh three item collection. Prices average to 571.8266...
func SampleItems() []item.Item {
	return []item.Item{
		{ID: 1, Name: "Gamer Laptop", Category: "Electronics", Price: 999.99},
		{ID: 2, Name: "Iron Pan", Category: "Kitchen", Price: 15.5},
		{ID: 3, Name: "Smartphone", Category: "Electronics", Price: 699.99},
	}
}

// WriteItemsFile writes items as a collection file in a test temp dir and
// returns its path.
func WriteItemsFile(t *testing.T, items []item.Item) string {
	t.Helper()

	if items == nil {
		items = []item.Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal items: %v", err)
	}

	path := filepath.Join(t.TempDir(), "items.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write items file %s: %v", path, err)
	}
	return path
}

// ReadItemsFile decodes the collection file at path.
func ReadItemsFile(t *testing.T, path string) []item.Item {
	t.Helper()

	var items []item.Item
	LoadFixtureJSON(t, path, &items)
	return items
}

// LoadFixture reads a fixture file relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}
	return data
}

// LoadFixtureJSON reads and unmarshals a JSON fixture.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	if err := json.Unmarshal(LoadFixture(t, path), dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// WriteGolden writes data to a golden file, creating parent directories.
func WriteGolden(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write golden file to %s: %v", path, err)
	}
}

// CompareWithGolden compares actual with the golden file at path. A missing
// golden file, or UpdateGoldenEnv being set, writes actual instead.
func CompareWithGolden(t *testing.T, path string, actual []byte) {
	t.Helper()

	if os.Getenv(UpdateGoldenEnv) != "" {
		WriteGolden(t, path, actual)
		return
	}

	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Logf("golden file %s does not exist, creating it", path)
		WriteGolden(t, path, actual)
		return
	}
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}

	if string(actual) != string(expected) {
		t.Errorf("output mismatch for %s:\nExpected:\n%s\nActual:\n%s", path, expected, actual)
	}
}

// FixturePath joins filename onto the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// GoldenPath joins filename onto testdata/golden.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", "golden", filename)
}
