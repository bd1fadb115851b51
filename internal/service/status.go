package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/devledger/devledger/internal/store"
	"github.com/devledger/devledger/internal/store/model"
)

// PublishStatus is the pollable view of one publish operation, joined with
// the publish envelope of the entity it belongs to.
type PublishStatus struct {
	OperationID string
	EntityType  string
	EntityID    uuid.UUID
	Status      string
	Attempts    int
	UAL         *string
	DatasetRoot *string
	Error       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type StatusService struct {
	store store.Store
}

func NewStatusService(store store.Store) *StatusService {
	return &StatusService{store: store}
}

func (s *StatusService) GetStatus(ctx context.Context, operationID string) (*PublishStatus, error) {
	operation, err := s.store.Operation().Get(ctx, operationID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrOperationNotFound(operationID)
		}
		return nil, err
	}

	status := &PublishStatus{
		OperationID: operation.OperationID,
		EntityType:  operation.EntityType,
		EntityID:    operation.EntityID,
		Status:      operation.Status,
		Attempts:    operation.Attempts,
		CreatedAt:   operation.CreatedAt,
		UpdatedAt:   operation.UpdatedAt,
	}

	envelope, err := s.entityEnvelope(ctx, operation.EntityType, operation.EntityID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			// entity row gone; report the operation row alone
			return status, nil
		}
		return nil, err
	}

	status.UAL = envelope.UAL
	status.DatasetRoot = envelope.DatasetRoot
	status.Error = envelope.PublishError
	return status, nil
}

func (s *StatusService) entityEnvelope(ctx context.Context, entityType string, entityID uuid.UUID) (*model.PublishEnvelope, error) {
	switch entityType {
	case model.EntityTypeProfile:
		profile, err := s.store.Profile().Get(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return &profile.Publish, nil
	case model.EntityTypeProject:
		project, err := s.store.Project().Get(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return &project.Publish, nil
	case model.EntityTypeEndorsement:
		endorsement, err := s.store.Endorsement().Get(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return &endorsement.Publish, nil
	default:
		return nil, store.ErrRecordNotFound
	}
}
