package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devledger/devledger/internal/store/model"
)

type Project interface {
	Create(ctx context.Context, project model.Project) (*model.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context, profileID *uuid.UUID) (model.ProjectList, error)
	UpdateAnalysisHash(ctx context.Context, id uuid.UUID, hash string) error
	UpdatePublishState(ctx context.Context, id uuid.UUID, envelope model.PublishEnvelope) error
}

type ProjectStore struct {
	db *gorm.DB
}

// Make sure we conform to Project interface
var _ Project = (*ProjectStore)(nil)

func NewProjectStore(db *gorm.DB) Project {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) Create(ctx context.Context, project model.Project) (*model.Project, error) {
	result := getDB(ctx, s.db).Create(&project)
	if result.Error != nil {
		return nil, result.Error
	}
	return &project, nil
}

func (s *ProjectStore) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project := model.Project{ID: id}
	result := getDB(ctx, s.db).First(&project)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &project, nil
}

func (s *ProjectStore) List(ctx context.Context, profileID *uuid.UUID) (model.ProjectList, error) {
	var projects model.ProjectList
	tx := getDB(ctx, s.db).Model(&model.Project{}).Order("created_at")
	if profileID != nil {
		tx = tx.Where("profile_id = ?", *profileID)
	}
	result := tx.Find(&projects)
	if result.Error != nil {
		return nil, result.Error
	}
	return projects, nil
}

func (s *ProjectStore) UpdateAnalysisHash(ctx context.Context, id uuid.UUID, hash string) error {
	result := getDB(ctx, s.db).Model(&model.Project{}).
		Where("id = ?", id).
		Update("analysis_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *ProjectStore) UpdatePublishState(ctx context.Context, id uuid.UUID, envelope model.PublishEnvelope) error {
	return updatePublishState(getDB(ctx, s.db), &model.Project{}, id, envelope)
}
