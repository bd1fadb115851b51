package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/devledger/devledger/internal/analysis"
	"github.com/devledger/devledger/internal/store/model"
)

// Analysis persists content-addressed analysis records. It satisfies the
// cache's store contract directly.
type Analysis interface {
	analysis.Store
	List(ctx context.Context) ([]model.Analysis, error)
}

type AnalysisStore struct {
	db *gorm.DB
}

// Make sure we conform to Analysis interface
var _ Analysis = (*AnalysisStore)(nil)
var _ analysis.Store = (*AnalysisStore)(nil)

func NewAnalysisStore(db *gorm.DB) Analysis {
	return &AnalysisStore{db: db}
}

func (s *AnalysisStore) GetRecord(ctx context.Context, hash string) (*analysis.Record, error) {
	row := model.Analysis{Hash: hash}
	result := getDB(ctx, s.db).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	record := toAnalysisRecord(row)
	return &record, nil
}

// InsertRecord is insert-if-absent: the first writer for a hash wins and
// every caller gets the stored row back.
func (s *AnalysisStore) InsertRecord(ctx context.Context, record analysis.Record) (*analysis.Record, error) {
	db := getDB(ctx, s.db)

	row := model.Analysis{
		Hash:           record.Hash,
		Narrative:      record.Narrative,
		Score:          record.Score,
		ScoreBreakdown: model.MakeJSONField(record.Breakdown),
		CreatedAt:      time.Now().UTC(),
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return nil, result.Error
	}

	stored := model.Analysis{Hash: record.Hash}
	if err := db.First(&stored).Error; err != nil {
		return nil, err
	}
	winner := toAnalysisRecord(stored)
	return &winner, nil
}

func (s *AnalysisStore) List(ctx context.Context) ([]model.Analysis, error) {
	var rows []model.Analysis
	result := getDB(ctx, s.db).Model(&model.Analysis{}).Order("created_at").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func toAnalysisRecord(row model.Analysis) analysis.Record {
	record := analysis.Record{
		Hash:      row.Hash,
		Narrative: row.Narrative,
		Score:     row.Score,
	}
	if row.ScoreBreakdown != nil {
		record.Breakdown = row.ScoreBreakdown.Data
	}
	return record
}
