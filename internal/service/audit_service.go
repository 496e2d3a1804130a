package service

import (
	"context"

	"inventory-api/internal/model"
	"inventory-api/internal/repository"
	"inventory-api/pkg/pagination"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	ActorID    string `json:"actor_id"`
	ActorType  string `json:"actor_type"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, params pagination.Params, action string) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// GetAuditLogs pages audit entries newest first, optionally filtered by action
func (s *auditService) GetAuditLogs(ctx context.Context, params pagination.Params, action string) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.repo.List(ctx, params.Offset, params.Limit, action)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, toAuditResponse(l))
	}
	return res, total, nil
}

func toAuditResponse(l model.AuditLog) AuditLogResponse {
	actorID := ""
	if l.ActorID != nil {
		actorID = l.ActorID.String()
	}
	return AuditLogResponse{
		ID:         l.ID.String(),
		ActorID:    actorID,
		ActorType:  l.ActorType,
		Action:     l.Action,
		EntityID:   l.EntityID,
		EntityName: l.EntityName,
		Details:    l.Details,
		CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
