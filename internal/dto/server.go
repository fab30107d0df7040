package dto

import (
	"time"

	"github.com/SscSPs/auradeploy/internal/core/domain"
)

// CreateServerRequest is the body of POST /api/servers.
type CreateServerRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=50"`
	Description string `json:"description" binding:"max=500"`
	Version     string `json:"version" binding:"omitempty,mcversion"`
	Type        string `json:"type" binding:"omitempty,oneof=vanilla forge fabric paper spigot bukkit"`
	MaxPlayers  *int   `json:"maxPlayers" binding:"omitempty,min=1,max=100"`
}

// UpdateServerRequest is the body of PUT /api/servers/:id.
type UpdateServerRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=3,max=50"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	MaxPlayers  *int    `json:"maxPlayers,omitempty" binding:"omitempty,min=1,max=100"`
}

// ListServersParams defines query parameters for listing servers.
type ListServersParams struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=10"`
}

// Normalize clamps paging values into the accepted range.
func (p *ListServersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// Offset is the number of rows skipped for the current page.
func (p ListServersParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ServerResponse is the API view of a mock fleet server.
type ServerResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Version     string              `json:"version"`
	Type        domain.ServerType   `json:"type"`
	Status      domain.ServerStatus `json:"status"`
	Owner       string              `json:"owner"`
	Port        int                 `json:"port"`
	IPAddress   string              `json:"ipAddress"`
	MaxPlayers  int                 `json:"maxPlayers"`
	IsActive    bool                `json:"isActive"`
	LastStarted *time.Time          `json:"lastStarted,omitempty"`
	LastStopped *time.Time          `json:"lastStopped,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func ToServerResponse(s *domain.Server) ServerResponse {
	return ServerResponse{
		ID:          s.ServerID,
		Name:        s.Name,
		Description: s.Description,
		Version:     s.Version,
		Type:        s.Type,
		Status:      s.Status,
		Owner:       s.OwnerID,
		Port:        s.Port,
		IPAddress:   s.IPAddress,
		MaxPlayers:  s.MaxPlayers,
		IsActive:    s.IsActive,
		LastStarted: s.LastStarted,
		LastStopped: s.LastStopped,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Current int  `json:"current"`
	Pages   int  `json:"pages"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// NewPagination computes page metadata from the total count.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{
		Current: page,
		Pages:   pages,
		Total:   total,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}

// ServerListResponse wraps a page of servers.
type ServerListResponse struct {
	Servers    []ServerResponse `json:"servers"`
	Pagination Pagination       `json:"pagination"`
}

// ServerEnvelope wraps a single server.
type ServerEnvelope struct {
	Server ServerResponse `json:"server"`
}

// ToServerListResponse converts a page of domain servers.
func ToServerListResponse(servers []domain.Server, params ListServersParams, total int) ServerListResponse {
	resp := make([]ServerResponse, len(servers))
	for i := range servers {
		resp[i] = ToServerResponse(&servers[i])
	}
	return ServerListResponse{
		Servers:    resp,
		Pagination: NewPagination(params.Page, params.Limit, total),
	}
}
