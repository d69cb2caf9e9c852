package model

import (
	"time"
)

type Game struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Description         *string   `json:"description,omitempty"`
	NumbersCount        int       `json:"numbers_count"`
	MaxNumber           int       `json:"max_number"`
	MachineNumbersCount int       `json:"machine_numbers_count"`
	MaxMachineNumber    int       `json:"max_machine_number"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// HasMachineNumbers reports whether the game profile requires a secondary
// machine-number set.
func (g *Game) HasMachineNumbers() bool {
	return g.MachineNumbersCount > 0
}
