package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"bookdiary/internal/models"
)

//go:embed seed_books.json
var seedData []byte

// SeedItems returns the embedded default catalog, sorted by ID.
// Returns a fresh slice on every call so callers may reorder freely.
func SeedItems() ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	if err := json.Unmarshal(seedData, &items); err != nil {
		return nil, fmt.Errorf("failed to decode seed catalog: %w", err)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, nil
}
