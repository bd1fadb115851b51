package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Endorsement struct {
	ID         uuid.UUID `gorm:"primaryKey"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  *time.Time
	EndorserID uuid.UUID  `gorm:"not null;index"`
	EndorseeID uuid.UUID  `gorm:"not null;index"`
	ProjectID  *uuid.UUID `gorm:"index"`
	Comment    string
	Weight     int             `gorm:"not null;default:1"`
	Publish    PublishEnvelope `gorm:"embedded"`
}

type EndorsementList []Endorsement

func (e Endorsement) String() string {
	val, _ := json.Marshal(e)
	return string(val)
}
