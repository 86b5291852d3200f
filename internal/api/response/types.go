package response

import (
	"strconv"
	"time"

	"github.com/ab3d1/moneygrid/internal/model"
)

// Message is a user-facing outcome message with its display class
type Message struct {
	Text string             `json:"text"`
	Type model.MessageClass `json:"type"`
}

// Assignment is the API representation of an assignment
type Assignment struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Number    int    `json:"number"`
	Timestamp int64  `json:"timestamp"`
	Fortune   string `json:"fortune,omitempty"`
}

// AssignmentFromModel converts a model assignment to its API representation
func AssignmentFromModel(a *model.Assignment) Assignment {
	return Assignment{
		ID:        string(a.ID),
		Name:      a.Name,
		Number:    a.Number,
		Timestamp: a.Timestamp,
		Fortune:   a.Fortune,
	}
}

// Roster is the API representation of the full roster
type Roster struct {
	Assignments []Assignment `json:"assignments"`
	Count       int          `json:"count"`
	Capacity    int          `json:"capacity"`
}

// RosterFromModel converts a model roster to its API representation
func RosterFromModel(roster model.Roster) Roster {
	assignments := make([]Assignment, 0, len(roster))
	for _, a := range roster {
		assignments = append(assignments, AssignmentFromModel(a))
	}
	return Roster{
		Assignments: assignments,
		Count:       len(assignments),
		Capacity:    model.SlotCount,
	}
}

// RegisterResponse is returned for an accepted registration
type RegisterResponse struct {
	Assignment Assignment `json:"assignment"`
	Message    Message    `json:"message"`
}

// RegisterResponseFromModel builds the accepted outcome with its success
// message
func RegisterResponseFromModel(a *model.Assignment) RegisterResponse {
	return RegisterResponse{
		Assignment: AssignmentFromModel(a),
		Message: Message{
			Text: "Success! You rolled a " + strconv.Itoa(a.Number) + ". Claim your destiny!",
			Type: model.MessageSuccess,
		},
	}
}

// AdminLoginResponse is returned for a successful admin login
type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminLoginResponseFromSession builds the login response
func AdminLoginResponseFromSession(s *model.AdminSession) AdminLoginResponse {
	return AdminLoginResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
}

// PurgeResponse is returned after a roster purge
type PurgeResponse struct {
	Message Message `json:"message"`
}

// NewPurgeResponse builds the purge confirmation
func NewPurgeResponse() PurgeResponse {
	return PurgeResponse{
		Message: Message{
			Text: "Arena purged. All slots now available.",
			Type: model.MessageNeutral,
		},
	}
}

// ImportResponse is returned after a roster import
type ImportResponse struct {
	Roster  Roster  `json:"roster"`
	Message Message `json:"message"`
}

// ImportResponseFromModel builds the import confirmation
func ImportResponseFromModel(roster model.Roster) ImportResponse {
	return ImportResponse{
		Roster: RosterFromModel(roster),
		Message: Message{
			Text: "Imported " + strconv.Itoa(len(roster)) + " assignments.",
			Type: model.MessageSuccess,
		},
	}
}
