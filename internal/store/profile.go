package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devledger/devledger/internal/store/model"
)

type Profile interface {
	Create(ctx context.Context, profile model.Profile) (*model.Profile, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	GetByUsername(ctx context.Context, username string) (*model.Profile, error)
	List(ctx context.Context) (model.ProfileList, error)
	UpdatePublishState(ctx context.Context, id uuid.UUID, envelope model.PublishEnvelope) error
}

type ProfileStore struct {
	db *gorm.DB
}

// Make sure we conform to Profile interface
var _ Profile = (*ProfileStore)(nil)

func NewProfileStore(db *gorm.DB) Profile {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) Create(ctx context.Context, profile model.Profile) (*model.Profile, error) {
	result := getDB(ctx, s.db).Create(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &profile, nil
}

func (s *ProfileStore) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	profile := model.Profile{ID: id}
	result := getDB(ctx, s.db).First(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &profile, nil
}

func (s *ProfileStore) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	var profile model.Profile
	result := getDB(ctx, s.db).Where("username = ?", username).First(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &profile, nil
}

func (s *ProfileStore) List(ctx context.Context) (model.ProfileList, error) {
	var profiles model.ProfileList
	result := getDB(ctx, s.db).Model(&model.Profile{}).Order("created_at").Find(&profiles)
	if result.Error != nil {
		return nil, result.Error
	}
	return profiles, nil
}

func (s *ProfileStore) UpdatePublishState(ctx context.Context, id uuid.UUID, envelope model.PublishEnvelope) error {
	return updatePublishState(getDB(ctx, s.db), &model.Profile{}, id, envelope)
}
