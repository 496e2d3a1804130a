package service

import (
	"context"
	"encoding/json"
	"fmt"

	"inventory-api/internal/model"
	"inventory-api/internal/repository"

	"github.com/google/uuid"
)

// Actor identifies who performed a change
type Actor struct {
	ID   *uuid.UUID
	Type string
}

func AdminActor(id uuid.UUID) Actor {
	return Actor{ID: &id, Type: model.ActorAdmin}
}

func DepartmentActor(id uuid.UUID) Actor {
	return Actor{ID: &id, Type: model.ActorDepartment}
}

// SystemActor is used by the CLI and seeders
var SystemActor = Actor{Type: model.ActorSystem}

type auditor struct {
	repo repository.AuditRepository
}

// record writes an audit entry; inside RunInTx it joins the transaction
func (a auditor) record(ctx context.Context, actor Actor, action, entityID, entityName string, details interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	entry := &model.AuditLog{
		ActorID:    actor.ID,
		ActorType:  actor.Type,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := a.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
