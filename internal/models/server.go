package models

import "time"

// Server is the row shape of the servers table.
type Server struct {
	ServerID        string     `db:"server_id"`
	OwnerID         string     `db:"owner_id"`
	Name            string     `db:"name"`
	Description     string     `db:"description"`
	Version         string     `db:"version"`
	ServerType      string     `db:"server_type"`
	Status          string     `db:"status"`
	Port            int        `db:"port"`
	IPAddress       string     `db:"ip_address"`
	MaxPlayers      int        `db:"max_players"`
	IsActive        bool       `db:"is_active"`
	LastStarted     *time.Time `db:"last_started"`
	LastStopped     *time.Time `db:"last_stopped"`
	TransitionDueAt *time.Time `db:"transition_due_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}
