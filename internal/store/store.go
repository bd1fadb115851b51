package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/devledger/devledger/internal/store/model"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Profile() Profile
	Project() Project
	Endorsement() Endorsement
	Operation() Operation
	Analysis() Analysis
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db          *gorm.DB
	profile     Profile
	project     Project
	endorsement Endorsement
	operation   Operation
	analysis    Analysis
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:          db,
		profile:     NewProfileStore(db),
		project:     NewProjectStore(db),
		endorsement: NewEndorsementStore(db),
		operation:   NewOperationStore(db),
		analysis:    NewAnalysisStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Profile() Profile {
	return s.profile
}

func (s *DataStore) Project() Project {
	return s.project
}

func (s *DataStore) Endorsement() Endorsement {
	return s.endorsement
}

func (s *DataStore) Operation() Operation {
	return s.operation
}

func (s *DataStore) Analysis() Analysis {
	return s.analysis
}

func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(
		&model.Profile{},
		&model.Project{},
		&model.Endorsement{},
		&model.PublishOperation{},
		&model.Analysis{},
	)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// getDB returns the transaction carried by ctx, if any, or the base handle.
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
