package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/devledger/devledger/internal/handlers/validator"
	"github.com/devledger/devledger/internal/service/mappers"
	"github.com/devledger/devledger/internal/store"
	"github.com/devledger/devledger/internal/store/model"
)

type EndorsementService struct {
	store     store.Store
	publisher Publisher
}

func NewEndorsementService(store store.Store, publisher Publisher) *EndorsementService {
	return &EndorsementService{store: store, publisher: publisher}
}

func (s *EndorsementService) CreateEndorsement(ctx context.Context, form mappers.EndorsementCreateForm) (*model.Endorsement, *model.PublishOperation, error) {
	v := validator.NewValidator()
	v.Register(validator.NewEndorsementValidationRules()...)
	if err := v.Struct(form); err != nil {
		return nil, nil, NewErrInvalidRequest(err.Error())
	}
	if form.EndorserID == form.EndorseeID {
		return nil, nil, NewErrSelfEndorsement(form.EndorserID)
	}

	if _, err := s.store.Profile().Get(ctx, form.EndorserID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil, NewErrProfileNotFound(form.EndorserID)
		}
		return nil, nil, err
	}
	if _, err := s.store.Profile().Get(ctx, form.EndorseeID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil, NewErrProfileNotFound(form.EndorseeID)
		}
		return nil, nil, err
	}
	if form.ProjectID != nil {
		if _, err := s.store.Project().Get(ctx, *form.ProjectID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, nil, NewErrProjectNotFound(*form.ProjectID)
			}
			return nil, nil, err
		}
	}

	return s.publisher.SubmitEndorsement(ctx, form.ToEndorsement())
}

func (s *EndorsementService) GetEndorsement(ctx context.Context, id uuid.UUID) (*model.Endorsement, error) {
	endorsement, err := s.store.Endorsement().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrEndorsementNotFound(id)
		}
		return nil, err
	}
	return endorsement, nil
}

func (s *EndorsementService) ListEndorsements(ctx context.Context, endorseeID *uuid.UUID) (model.EndorsementList, error) {
	return s.store.Endorsement().List(ctx, endorseeID)
}
