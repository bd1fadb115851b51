package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devledger/devledger/internal/store/model"
)

type Endorsement interface {
	Create(ctx context.Context, endorsement model.Endorsement) (*model.Endorsement, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Endorsement, error)
	List(ctx context.Context, endorseeID *uuid.UUID) (model.EndorsementList, error)
	UpdatePublishState(ctx context.Context, id uuid.UUID, envelope model.PublishEnvelope) error
}

type EndorsementStore struct {
	db *gorm.DB
}

// Make sure we conform to Endorsement interface
var _ Endorsement = (*EndorsementStore)(nil)

func NewEndorsementStore(db *gorm.DB) Endorsement {
	return &EndorsementStore{db: db}
}

func (s *EndorsementStore) Create(ctx context.Context, endorsement model.Endorsement) (*model.Endorsement, error) {
	result := getDB(ctx, s.db).Create(&endorsement)
	if result.Error != nil {
		return nil, result.Error
	}
	return &endorsement, nil
}

func (s *EndorsementStore) Get(ctx context.Context, id uuid.UUID) (*model.Endorsement, error) {
	endorsement := model.Endorsement{ID: id}
	result := getDB(ctx, s.db).First(&endorsement)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &endorsement, nil
}

func (s *EndorsementStore) List(ctx context.Context, endorseeID *uuid.UUID) (model.EndorsementList, error) {
	var endorsements model.EndorsementList
	tx := getDB(ctx, s.db).Model(&model.Endorsement{}).Order("created_at")
	if endorseeID != nil {
		tx = tx.Where("endorsee_id = ?", *endorseeID)
	}
	result := tx.Find(&endorsements)
	if result.Error != nil {
		return nil, result.Error
	}
	return endorsements, nil
}

func (s *EndorsementStore) UpdatePublishState(ctx context.Context, id uuid.UUID, envelope model.PublishEnvelope) error {
	return updatePublishState(getDB(ctx, s.db), &model.Endorsement{}, id, envelope)
}
