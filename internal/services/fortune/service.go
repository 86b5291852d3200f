package fortune

import (
	"fmt"

	"github.com/ab3d1/moneygrid/internal/dependencies/random"
)

// Fortune templates, interpolated with the player name and drawn number.
// Purely decorative; no semantic weight.
var templates = []func(name string, number int) string{
	func(name string, number int) string {
		return fmt.Sprintf("The digital winds favor your path, %s. Number %d aligns with quantum fortunes.", name, number)
	},
	func(name string, number int) string {
		return fmt.Sprintf("Cyberspace resonates at frequency %d. Your identity syncs with the money-grid.", number)
	},
	func(name string, number int) string {
		return fmt.Sprintf("Fortune %d: Code flows like currency. Your virtual wealth awaits.", number)
	},
	func(name string, number int) string {
		return fmt.Sprintf("Player %s, your algorithm converges on prosperity node %d.", name, number)
	},
	func(name string, number int) string {
		return fmt.Sprintf("The blockchain of destiny registers %d to your account. Hack the mainframe of luck.", number)
	},
	func(name string, number int) string {
		return fmt.Sprintf("Signal %d detected in the cyberstream. %s, your financial node is active.", number, name)
	},
	func(name string, number int) string {
		return fmt.Sprintf("Encryption key %d validates your wealth protocol, %s.", number, name)
	},
	func(name string, number int) string {
		return fmt.Sprintf("Neural link established. Number %d channels prosperity to %s.", number, name)
	},
	func(name string, number int) string {
		return fmt.Sprintf("Quantum ledger entry: %s allocated to fortune sector %d.", name, number)
	},
	func(name string, number int) string {
		return fmt.Sprintf("The matrix blesses %s with monetary frequency %d.", name, number)
	},
}

// Service generates decorative fortunes for accepted assignments
type Service struct {
	random random.Random
}

// New creates a new fortune service
func New(random random.Random) *Service {
	return &Service{random: random}
}

// For returns a fortune for the given player and number, drawn uniformly
// from the template set
func (s *Service) For(name string, number int) string {
	idx := s.random.Intn(len(templates))
	return templates[idx](name, number)
}
