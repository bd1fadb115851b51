package model

import (
	"encoding/json"
	"time"

	"github.com/devledger/devledger/internal/analysis"
)

// Analysis is a content-addressed row: the hash is derived from the stable
// identity of the scored input, and the table is append-only. A second
// submission with the same hash reuses this row instead of recomputing.
type Analysis struct {
	Hash           string                              `gorm:"primaryKey;type:VARCHAR(64)"`
	Narrative      string                              `gorm:"not null"`
	Score          int                                 `gorm:"not null"`
	ScoreBreakdown *JSONField[analysis.ScoreBreakdown] `gorm:"type:jsonb;not null"`
	CreatedAt      time.Time                           `gorm:"not null"`
}

func (a Analysis) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}
