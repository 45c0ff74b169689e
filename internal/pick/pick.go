package pick

import (
	"hash/fnv"
	"time"

	"bookdiary/internal/models"
)

const (
	// dateKeyLayout normalizes a timestamp to its calendar day, so every
	// call within the same day hashes the same key.
	dateKeyLayout = "2006-01-02"

	// monthKeyLayout normalizes a timestamp to its calendar month.
	monthKeyLayout = "2006-01"
)

// DateKey returns the yyyy-MM-dd selection key for a timestamp.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// MonthKey returns the yyyy-MM selection key for a timestamp.
func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// hashKey computes a stable FNV-1a hash of a selection key. A fixed
// algorithm, not the runtime's string hash, so the selection for a
// given date survives process restarts and version upgrades.
func hashKey(key string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return h.Sum64()
}

// SelectForDate deterministically selects the book of the day from the
// pool. The same (pool, date) pair always yields the same item as long
// as the pool ordering is stable; callers must freeze the ordering
// (the Picker sorts by item ID). An empty pool yields ok=false.
func SelectForDate(pool []models.CatalogItem, date time.Time) (models.CatalogItem, bool) {
	return selectByKey(pool, DateKey(date))
}

// SelectForMonth deterministically selects the book of the month from
// the pool, keyed on the calendar month containing date.
func SelectForMonth(pool []models.CatalogItem, date time.Time) (models.CatalogItem, bool) {
	return selectByKey(pool, MonthKey(date))
}

func selectByKey(pool []models.CatalogItem, key string) (models.CatalogItem, bool) {
	if len(pool) == 0 {
		return models.CatalogItem{}, false
	}

	// Collisions across different keys mapping to the same index are
	// expected; this is a selection index, not a uniqueness key.
	index := int(hashKey(key) % uint64(len(pool)))
	return pool[index], true
}
