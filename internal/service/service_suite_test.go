package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/devledger/devledger/internal/config"
	"github.com/devledger/devledger/internal/store"
	"github.com/devledger/devledger/internal/store/model"
)

func TestService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Service Suite")
}

func newTestStore(dsn string) store.Store {
	cfg := config.NewDefault()
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = dsn

	db, err := store.InitDB(cfg)
	Expect(err).To(BeNil())

	s := store.NewStore(db)
	Expect(s.InitialMigration()).To(Succeed())
	return s
}

// stubPublisher stores the submitted entity and its operation row without
// spawning any background work, so the services can be tested on their own.
type stubPublisher struct {
	store store.Store
}

func (p *stubPublisher) submit(ctx context.Context, entityType string, entityID uuid.UUID) (*model.PublishOperation, error) {
	return p.store.Operation().Create(ctx, model.PublishOperation{
		OperationID: "op-" + uuid.NewString(),
		EntityType:  entityType,
		EntityID:    entityID,
		Status:      model.PublishStatusPublishing,
	})
}

func (p *stubPublisher) SubmitProfile(ctx context.Context, profile model.Profile) (*model.Profile, *model.PublishOperation, error) {
	created, err := p.store.Profile().Create(ctx, profile)
	if err != nil {
		return nil, nil, err
	}
	operation, err := p.submit(ctx, model.EntityTypeProfile, created.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, operation, nil
}

func (p *stubPublisher) SubmitProject(ctx context.Context, project model.Project) (*model.Project, *model.PublishOperation, error) {
	created, err := p.store.Project().Create(ctx, project)
	if err != nil {
		return nil, nil, err
	}
	operation, err := p.submit(ctx, model.EntityTypeProject, created.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, operation, nil
}

func (p *stubPublisher) SubmitEndorsement(ctx context.Context, endorsement model.Endorsement) (*model.Endorsement, *model.PublishOperation, error) {
	created, err := p.store.Endorsement().Create(ctx, endorsement)
	if err != nil {
		return nil, nil, err
	}
	operation, err := p.submit(ctx, model.EntityTypeEndorsement, created.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, operation, nil
}
