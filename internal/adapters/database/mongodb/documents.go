package mongodb

import (
	"time"

	"github.com/SscSPs/auradeploy/internal/core/domain"
)

const (
	usersCollection   = "users"
	serversCollection = "servers"
)

// userDocument is the stored shape of a user. The UUID user id is used as _id.
type userDocument struct {
	ID           string     `bson:"_id"`
	Username     string     `bson:"username"`
	Email        string     `bson:"email"`
	PasswordHash *string    `bson:"passwordHash,omitempty"`
	Role         string     `bson:"role"`
	GoogleID     *string    `bson:"googleId,omitempty"`
	IsActive     bool       `bson:"isActive"`
	LastLogin    *time.Time `bson:"lastLogin,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
}

type serverDocument struct {
	ID              string     `bson:"_id"`
	OwnerID         string     `bson:"owner"`
	Name            string     `bson:"name"`
	Description     string     `bson:"description"`
	Version         string     `bson:"version"`
	Type            string     `bson:"type"`
	Status          string     `bson:"status"`
	Port            int        `bson:"port"`
	IPAddress       string     `bson:"ipAddress"`
	MaxPlayers      int        `bson:"maxPlayers"`
	IsActive        bool       `bson:"isActive"`
	LastStarted     *time.Time `bson:"lastStarted,omitempty"`
	LastStopped     *time.Time `bson:"lastStopped,omitempty"`
	TransitionDueAt *time.Time `bson:"transitionDueAt,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt"`
}

func toUserDocument(u domain.User) userDocument {
	return userDocument{
		ID:           u.UserID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		GoogleID:     u.GoogleID,
		IsActive:     u.IsActive,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDocument) toDomain() domain.User {
	return domain.User{
		UserID:       d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         domain.UserRole(d.Role),
		GoogleID:     d.GoogleID,
		IsActive:     d.IsActive,
		LastLogin:    d.LastLogin,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toServerDocument(s domain.Server) serverDocument {
	return serverDocument{
		ID:              s.ServerID,
		OwnerID:         s.OwnerID,
		Name:            s.Name,
		Description:     s.Description,
		Version:         s.Version,
		Type:            string(s.Type),
		Status:          string(s.Status),
		Port:            s.Port,
		IPAddress:       s.IPAddress,
		MaxPlayers:      s.MaxPlayers,
		IsActive:        s.IsActive,
		LastStarted:     s.LastStarted,
		LastStopped:     s.LastStopped,
		TransitionDueAt: s.TransitionDueAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (d serverDocument) toDomain() domain.Server {
	return domain.Server{
		ServerID:        d.ID,
		OwnerID:         d.OwnerID,
		Name:            d.Name,
		Description:     d.Description,
		Version:         d.Version,
		Type:            domain.ServerType(d.Type),
		Status:          domain.ServerStatus(d.Status),
		Port:            d.Port,
		IPAddress:       d.IPAddress,
		MaxPlayers:      d.MaxPlayers,
		IsActive:        d.IsActive,
		LastStarted:     d.LastStarted,
		LastStopped:     d.LastStopped,
		TransitionDueAt: d.TransitionDueAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
