package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/devledger/devledger/internal/analysis"
)

type Project struct {
	ID           uuid.UUID `gorm:"primaryKey"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    *time.Time
	ProfileID    uuid.UUID `gorm:"not null;index"`
	Name         string    `gorm:"not null"`
	Description  string
	RepoURL      string                           `gorm:"not null"`
	RepoPushedAt time.Time                        `gorm:"not null"`
	Metrics      *JSONField[analysis.RepoMetrics] `gorm:"type:jsonb"`
	// AnalysisHash points at the analyses row derived from RepoURL and
	// RepoPushedAt; many projects may share one analysis.
	AnalysisHash string          `gorm:"type:VARCHAR(64);index"`
	Publish      PublishEnvelope `gorm:"embedded"`
}

type ProjectList []Project

func (p Project) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}
