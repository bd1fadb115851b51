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

type ProjectService struct {
	store     store.Store
	publisher Publisher
}

func NewProjectService(store store.Store, publisher Publisher) *ProjectService {
	return &ProjectService{store: store, publisher: publisher}
}

func (s *ProjectService) CreateProject(ctx context.Context, form mappers.ProjectCreateForm) (*model.Project, *model.PublishOperation, error) {
	v := validator.NewValidator()
	v.Register(validator.NewProjectValidationRules()...)
	if err := v.Struct(form); err != nil {
		return nil, nil, NewErrInvalidRequest(err.Error())
	}

	if _, err := s.store.Profile().Get(ctx, form.ProfileID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil, NewErrProfileNotFound(form.ProfileID)
		}
		return nil, nil, err
	}

	return s.publisher.SubmitProject(ctx, form.ToProject())
}

func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project, err := s.store.Project().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrProjectNotFound(id)
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, profileID *uuid.UUID) (model.ProjectList, error) {
	return s.store.Project().List(ctx, profileID)
}
