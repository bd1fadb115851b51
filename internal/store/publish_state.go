package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devledger/devledger/internal/store/model"
)

var terminalPublishStatuses = []string{model.PublishStatusCompleted, model.PublishStatusFailed}

// updatePublishState rewrites the publish envelope of one entity row,
// refusing to touch rows already in a terminal state. Zero affected rows
// means either the row is gone or it already finished; a second read
// disambiguates the two.
func updatePublishState(db *gorm.DB, entity any, id uuid.UUID, envelope model.PublishEnvelope) error {
	updates := map[string]any{
		"publish_status": envelope.PublishStatus,
		"ual":            envelope.UAL,
		"dataset_root":   envelope.DatasetRoot,
		"publish_error":  envelope.PublishError,
	}
	if envelope.OperationID != nil {
		updates["operation_id"] = envelope.OperationID
	}

	result := db.Model(entity).
		Where("id = ? AND publish_status NOT IN ?", id, terminalPublishStatuses).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(entity).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrRecordNotFound
		}
		return ErrTerminalState
	}
	return nil
}
