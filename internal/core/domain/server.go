package domain

import "time"

// ServerStatus is the lifecycle state of a mock fleet server.
type ServerStatus string

const (
	StatusStopped  ServerStatus = "stopped"
	StatusStarting ServerStatus = "starting"
	StatusRunning  ServerStatus = "running"
	StatusStopping ServerStatus = "stopping"
	StatusError    ServerStatus = "error"
)

// ServerType is the Minecraft server distribution.
type ServerType string

const (
	TypeVanilla ServerType = "vanilla"
	TypeForge   ServerType = "forge"
	TypeFabric  ServerType = "fabric"
	TypePaper   ServerType = "paper"
	TypeSpigot  ServerType = "spigot"
	TypeBukkit  ServerType = "bukkit"
)

const (
	MaxServersPerUser    = 5
	DefaultServerVersion = "1.20.4"
	DefaultServerType    = TypeVanilla
	DefaultMaxPlayers    = 20
	BaseServerPort       = 25565
	ServerPortSpread     = 1000
	ServerHostSuffix     = ".auradeploy.com"
)

// Server is a simulated game server owned by a single user.
type Server struct {
	ServerID    string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Version     string       `json:"version"`
	Type        ServerType   `json:"type"`
	Status      ServerStatus `json:"status"`
	OwnerID     string       `json:"owner"`
	Port        int          `json:"port"`
	IPAddress   string       `json:"ipAddress"`
	MaxPlayers  int          `json:"maxPlayers"`
	IsActive    bool         `json:"isActive"`
	LastStarted *time.Time   `json:"lastStarted,omitempty"`
	LastStopped *time.Time   `json:"lastStopped,omitempty"`
	// TransitionDueAt is set while starting or stopping and marks when the
	// transient status settles.
	TransitionDueAt *time.Time `json:"transitionDueAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// IsTransient reports whether the status is one of the two in-flight states.
func (s ServerStatus) IsTransient() bool {
	return s == StatusStarting || s == StatusStopping
}

// Settled returns the stable status a transient status resolves to.
func (s ServerStatus) Settled() ServerStatus {
	switch s {
	case StatusStarting:
		return StatusRunning
	case StatusStopping:
		return StatusStopped
	default:
		return s
	}
}

// ToggleTarget returns the transient status entered when a user toggles a
// server in status s. Only stopped and running servers can be toggled; ok is
// false for every other status.
func (s ServerStatus) ToggleTarget() (ServerStatus, bool) {
	switch s {
	case StatusStopped:
		return StatusStarting, true
	case StatusRunning:
		return StatusStopping, true
	default:
		return s, false
	}
}

// TransitionDue reports whether a pending transition should have completed by now.
func (s Server) TransitionDue(now time.Time) bool {
	return s.Status.IsTransient() && s.TransitionDueAt != nil && !s.TransitionDueAt.After(now)
}

// Settle applies an overdue transition in memory and reports whether it did.
func (s *Server) Settle(now time.Time) bool {
	if !s.TransitionDue(now) {
		return false
	}
	s.Status = s.Status.Settled()
	s.TransitionDueAt = nil
	return true
}

// IsValidServerType checks t against the supported distributions.
func IsValidServerType(t ServerType) bool {
	switch t {
	case TypeVanilla, TypeForge, TypeFabric, TypePaper, TypeSpigot, TypeBukkit:
		return true
	}
	return false
}

// StatusTransition describes a conditional status write. It only applies
// when the stored status still equals From.
type StatusTransition struct {
	ServerID        string
	From            ServerStatus
	To              ServerStatus
	TransitionDueAt *time.Time
	LastStarted     *time.Time
	LastStopped     *time.Time
	At              time.Time
}

// ServerStats summarises a user's fleet for the dashboard.
type ServerStats struct {
	TotalServers   int `json:"totalServers"`
	RunningServers int `json:"runningServers"`
	StoppedServers int `json:"stoppedServers"`
}

// ServerStatusChanged is emitted after every successful status write.
type ServerStatusChanged struct {
	ServerID   string       `json:"serverId"`
	OwnerID    string       `json:"ownerId"`
	From       ServerStatus `json:"from"`
	To         ServerStatus `json:"to"`
	OccurredAt time.Time    `json:"occurredAt"`
}
