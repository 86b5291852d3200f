package model

import "time"

// ExportedAssignment is one roster entry in the export file shape.
// Store ids are deliberately absent: imports always mint fresh ids.
type ExportedAssignment struct {
	Name      string `json:"name"`
	Number    int    `json:"number"`
	Timestamp int64  `json:"timestamp"`
	Fortune   string `json:"fortune,omitempty"`
}

// RosterExport is the import/export file format
type RosterExport struct {
	Assignments  []ExportedAssignment `json:"assignments"`
	ExportDate   string               `json:"exportDate"` // ISO-8601
	TotalPlayers int                  `json:"totalPlayers"`
}

// NewRosterExport builds an export of the given roster at the given instant
func NewRosterExport(roster Roster, now time.Time) *RosterExport {
	exported := make([]ExportedAssignment, 0, len(roster))
	for _, a := range roster {
		exported = append(exported, ExportedAssignment{
			Name:      a.Name,
			Number:    a.Number,
			Timestamp: a.Timestamp,
			Fortune:   a.Fortune,
		})
	}
	return &RosterExport{
		Assignments:  exported,
		ExportDate:   now.UTC().Format(time.RFC3339),
		TotalPlayers: len(exported),
	}
}

// Validate checks the export for import: every number must be in the slot
// range and no number may repeat. A nil assignments sequence is rejected as
// an invalid format.
func (e *RosterExport) Validate() error {
	if e.Assignments == nil {
		return ErrInvalidFormat
	}
	if len(e.Assignments) > SlotCount {
		return ErrInvalidFormat
	}
	seen := make(map[int]bool, len(e.Assignments))
	for _, a := range e.Assignments {
		if a.Number < SlotMin || a.Number > SlotMax {
			return ErrInvalidFormat
		}
		if seen[a.Number] {
			return ErrDuplicateNumbers
		}
		seen[a.Number] = true
	}
	return nil
}

// Roster converts the export back into assignments, dropping any ids carried
// in the source data
func (e *RosterExport) Roster() Roster {
	roster := make(Roster, 0, len(e.Assignments))
	for _, a := range e.Assignments {
		roster = append(roster, &Assignment{
			Name:      a.Name,
			Number:    a.Number,
			Timestamp: a.Timestamp,
			Fortune:   a.Fortune,
		})
	}
	return roster
}
