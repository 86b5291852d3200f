package model

import (
	"sort"
	"strings"
)

// Slot space for money numbers
const (
	SlotMin   = 1
	SlotMax   = 9
	SlotCount = SlotMax - SlotMin + 1
)

// AssignmentID is the store-assigned identifier for an assignment.
// Empty until the store has durably accepted the record.
type AssignmentID string

// Assignment is one player's claim on a money number slot
type Assignment struct {
	ID        AssignmentID `json:"id,omitempty"`
	Name      string       `json:"name"`
	Number    int          `json:"number"`
	Timestamp int64        `json:"timestamp"` // milliseconds since epoch
	Fortune   string       `json:"fortune,omitempty"`
}

// NormalizeName trims and lowercases a player name for comparison.
// Name uniqueness is always checked on the normalized form.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Roster is the full set of current assignments, ordered by timestamp descending
type Roster []*Assignment

// FindByName returns the assignment whose normalized name matches, or nil
func (r Roster) FindByName(name string) *Assignment {
	normalized := NormalizeName(name)
	for _, a := range r {
		if NormalizeName(a.Name) == normalized {
			return a
		}
	}
	return nil
}

// FindByNumber returns the assignment holding the given slot, or nil
func (r Roster) FindByNumber(number int) *Assignment {
	for _, a := range r {
		if a.Number == number {
			return a
		}
	}
	return nil
}

// Full reports whether every slot is taken
func (r Roster) Full() bool {
	return len(r) >= SlotCount
}

// FreeSlots returns the ascending set of unclaimed slot numbers
func (r Roster) FreeSlots() []int {
	taken := make(map[int]bool, len(r))
	for _, a := range r {
		taken[a.Number] = true
	}
	var free []int
	for n := SlotMin; n <= SlotMax; n++ {
		if !taken[n] {
			free = append(free, n)
		}
	}
	return free
}

// Sort orders the roster by timestamp descending (newest first).
// Ties break on name for a stable display order.
func (r Roster) Sort() {
	sort.SliceStable(r, func(i, j int) bool {
		if r[i].Timestamp != r[j].Timestamp {
			return r[i].Timestamp > r[j].Timestamp
		}
		return r[i].Name < r[j].Name
	})
}
