package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/devledger/devledger/internal/store/model"
)

type Operation interface {
	Create(ctx context.Context, operation model.PublishOperation) (*model.PublishOperation, error)
	Get(ctx context.Context, operationID string) (*model.PublishOperation, error)
	List(ctx context.Context) (model.PublishOperationList, error)
	UpdateStatus(ctx context.Context, operationID string, status string) error
	IncrementAttempts(ctx context.Context, operationID string) error
}

type OperationStore struct {
	db *gorm.DB
}

// Make sure we conform to Operation interface
var _ Operation = (*OperationStore)(nil)

func NewOperationStore(db *gorm.DB) Operation {
	return &OperationStore{db: db}
}

func (s *OperationStore) Create(ctx context.Context, operation model.PublishOperation) (*model.PublishOperation, error) {
	result := getDB(ctx, s.db).Create(&operation)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &operation, nil
}

func (s *OperationStore) Get(ctx context.Context, operationID string) (*model.PublishOperation, error) {
	operation := model.PublishOperation{OperationID: operationID}
	result := getDB(ctx, s.db).First(&operation)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &operation, nil
}

func (s *OperationStore) List(ctx context.Context) (model.PublishOperationList, error) {
	var operations model.PublishOperationList
	result := getDB(ctx, s.db).Model(&model.PublishOperation{}).Order("created_at").Find(&operations)
	if result.Error != nil {
		return nil, result.Error
	}
	return operations, nil
}

// UpdateStatus advances an operation along the publish lifecycle. Terminal
// rows are immutable; trying to move one returns ErrTerminalState.
func (s *OperationStore) UpdateStatus(ctx context.Context, operationID string, status string) error {
	db := getDB(ctx, s.db)
	result := db.Model(&model.PublishOperation{}).
		Where("operation_id = ? AND status NOT IN ?", operationID, terminalPublishStatuses).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&model.PublishOperation{}).Where("operation_id = ?", operationID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrRecordNotFound
		}
		return ErrTerminalState
	}
	return nil
}

func (s *OperationStore) IncrementAttempts(ctx context.Context, operationID string) error {
	result := getDB(ctx, s.db).Model(&model.PublishOperation{}).
		Where("operation_id = ?", operationID).
		Update("attempts", gorm.Expr("attempts + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
