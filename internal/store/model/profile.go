package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PublishEnvelope is embedded in every publishable record. It is owned by
// the publish orchestrator until the operation reaches a terminal state.
// UAL and DatasetRoot are set if and only if the record completed;
// PublishError if and only if it failed.
type PublishEnvelope struct {
	OperationID   *string `gorm:"column:operation_id;index"`
	PublishStatus string  `gorm:"column:publish_status;not null;default:pending"`
	UAL           *string `gorm:"column:ual"`
	DatasetRoot   *string `gorm:"column:dataset_root"`
	PublishError  *string `gorm:"column:publish_error"`
}

type Profile struct {
	ID            uuid.UUID `gorm:"primaryKey"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     *time.Time
	Username      string `gorm:"not null;uniqueIndex"`
	DisplayName   string
	Bio           string
	Skills        *JSONField[[]string] `gorm:"type:jsonb"`
	GithubURL     string
	WalletAddress string
	Publish       PublishEnvelope `gorm:"embedded"`
}

type ProfileList []Profile

func (p Profile) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}
