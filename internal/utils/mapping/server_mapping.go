package mapping

import (
	"github.com/SscSPs/auradeploy/internal/core/domain"
	"github.com/SscSPs/auradeploy/internal/models"
)

// ToModelServer converts a domain Server to a model Server
func ToModelServer(d domain.Server) models.Server {
	return models.Server{
		ServerID:        d.ServerID,
		OwnerID:         d.OwnerID,
		Name:            d.Name,
		Description:     d.Description,
		Version:         d.Version,
		ServerType:      string(d.Type),
		Status:          string(d.Status),
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

// ToDomainServer converts a model Server to a domain Server
func ToDomainServer(m models.Server) domain.Server {
	return domain.Server{
		ServerID:        m.ServerID,
		OwnerID:         m.OwnerID,
		Name:            m.Name,
		Description:     m.Description,
		Version:         m.Version,
		Type:            domain.ServerType(m.ServerType),
		Status:          domain.ServerStatus(m.Status),
		Port:            m.Port,
		IPAddress:       m.IPAddress,
		MaxPlayers:      m.MaxPlayers,
		IsActive:        m.IsActive,
		LastStarted:     m.LastStarted,
		LastStopped:     m.LastStopped,
		TransitionDueAt: m.TransitionDueAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ToDomainServerSlice converts a slice of model Servers to a slice of domain Servers
func ToDomainServerSlice(ms []models.Server) []domain.Server {
	ds := make([]domain.Server, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainServer(m)
	}
	return ds
}
