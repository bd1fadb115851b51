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

type ProfileService struct {
	store     store.Store
	publisher Publisher
}

func NewProfileService(store store.Store, publisher Publisher) *ProfileService {
	return &ProfileService{store: store, publisher: publisher}
}

func (s *ProfileService) CreateProfile(ctx context.Context, form mappers.ProfileCreateForm) (*model.Profile, *model.PublishOperation, error) {
	v := validator.NewValidator()
	v.Register(validator.NewProfileValidationRules()...)
	if err := v.Struct(form); err != nil {
		return nil, nil, NewErrInvalidRequest(err.Error())
	}

	if _, err := s.store.Profile().GetByUsername(ctx, form.Username); err == nil {
		return nil, nil, NewErrUsernameTaken(form.Username)
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, nil, err
	}

	profile, operation, err := s.publisher.SubmitProfile(ctx, form.ToProfile())
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, nil, NewErrUsernameTaken(form.Username)
		}
		return nil, nil, err
	}
	return profile, operation, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	profile, err := s.store.Profile().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrProfileNotFound(id)
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) ListProfiles(ctx context.Context) (model.ProfileList, error) {
	return s.store.Profile().List(ctx)
}
