package entities

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is written into every envelope and backfilled when a loaded
// envelope predates versioning.
const SchemaVersion = "1.0.0"

// DefaultExpiringWindowDays is the expiring-soon horizon used when a request
// does not supply one.
const DefaultExpiringWindowDays = 7

// FieldViolation describes a single violated field constraint.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every violated constraint of a request or record,
// not just the first one found.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add records a violation and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
	return e
}

// OrNil returns nil when no violations were recorded.
func (e *ValidationError) OrNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

// NotFoundError reports that a selector matched no record.
type NotFoundError struct {
	Selector string // "id" or "name"
	Value    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no item found with %s %q", e.Selector, e.Value)
}

// DatabaseError wraps an I/O or internal invariant failure. Error renders a
// generic safe message; the cause stays reachable through Unwrap for logging.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error during %s", e.Op)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// FoodItem is the sole persisted entity.
type FoodItem struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Quantity       int        `json:"quantity"`
	Unit           string     `json:"unit"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	Category       string     `json:"category,omitempty"`
	Location       string     `json:"location,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	AddedDate      time.Time  `json:"addedDate"`
	LastModified   time.Time  `json:"lastModified"`
}

// Validate checks the record-level constraints applied at load time and after
// an update merge. Creation-only rules (quantity >= 1) live on the request.
// All violations are reported, not just the first.
func (f *FoodItem) Validate() error {
	verr := &ValidationError{}
	if uuid.Validate(f.ID) != nil {
		verr.Add("id", "Invalid item id")
	}
	if strings.TrimSpace(f.Name) == "" {
		verr.Add("name", "Name is required")
	}
	if f.Quantity < 0 {
		verr.Add("quantity", "Quantity cannot be negative")
	}
	if strings.TrimSpace(f.Unit) == "" {
		verr.Add("unit", "Unit is required")
	}
	return verr.OrNil()
}

// ExpiresWithin reports whether the item expires in [now, now+days]. Items
// without an expiration date, or already expired, are never within a window.
func (f *FoodItem) ExpiresWithin(now time.Time, days int) bool {
	if f.ExpirationDate == nil {
		return false
	}
	exp := *f.ExpirationDate
	if exp.Before(now) {
		return false
	}
	return !exp.After(now.AddDate(0, 0, days))
}

// IsExpired reports whether the expiration date has passed.
func (f *FoodItem) IsExpired(now time.Time) bool {
	return f.ExpirationDate != nil && f.ExpirationDate.Before(now)
}

// Clone returns a deep copy, so snapshots never alias the stored record.
func (f *FoodItem) Clone() FoodItem {
	out := *f
	if f.ExpirationDate != nil {
		exp := *f.ExpirationDate
		out.ExpirationDate = &exp
	}
	return out
}

// Database is the envelope persisted as the primary JSON file. Item order in
// the file is not significant; queries re-sort on read.
type Database struct {
	Items        []FoodItem `json:"items"`
	LastModified time.Time  `json:"lastModified"`
	Version      string     `json:"version"`
}

// InventoryStats summarizes the collection for the stats operation.
type InventoryStats struct {
	TotalItems    int       `json:"totalItems"`
	Categories    []string  `json:"categories"`
	Locations     []string  `json:"locations"`
	ExpiringCount int       `json:"expiringCount"`
	LastModified  time.Time `json:"lastModified"`
	Version       string    `json:"version"`
}

// Summarize computes stats over the envelope. The expiring count uses the
// default window: not yet expired and at most seven days out.
func (db *Database) Summarize(now time.Time) InventoryStats {
	categories := map[string]struct{}{}
	locations := map[string]struct{}{}
	expiring := 0
	for i := range db.Items {
		it := &db.Items[i]
		if it.Category != "" {
			categories[it.Category] = struct{}{}
		}
		if it.Location != "" {
			locations[it.Location] = struct{}{}
		}
		if it.ExpiresWithin(now, DefaultExpiringWindowDays) {
			expiring++
		}
	}
	return InventoryStats{
		TotalItems:    len(db.Items),
		Categories:    sortedKeys(categories),
		Locations:     sortedKeys(locations),
		ExpiringCount: expiring,
		LastModified:  db.LastModified,
		Version:       db.Version,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
