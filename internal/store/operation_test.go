package store_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/devledger/devledger/internal/config"
	"github.com/devledger/devledger/internal/store"
	"github.com/devledger/devledger/internal/store/model"
)

var _ = Describe("OperationStore", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		cfg.Database.Type = "sqlite"
		cfg.Database.Name = "file:operations?mode=memory&cache=shared"

		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM publish_operations")
	})

	Context("Create and Get", func() {
		It("round-trips an operation row", func() {
			entityID := uuid.New()
			created, err := s.Operation().Create(context.TODO(), model.PublishOperation{
				OperationID: "op-test-1",
				EntityType:  model.EntityTypeProfile,
				EntityID:    entityID,
				Status:      model.PublishStatusPending,
			})
			Expect(err).To(BeNil())
			Expect(created.OperationID).To(Equal("op-test-1"))

			fetched, err := s.Operation().Get(context.TODO(), "op-test-1")
			Expect(err).To(BeNil())
			Expect(fetched.EntityType).To(Equal(model.EntityTypeProfile))
			Expect(fetched.EntityID).To(Equal(entityID))
			Expect(fetched.Status).To(Equal(model.PublishStatusPending))
			Expect(fetched.Attempts).To(BeZero())
		})

		It("returns ErrRecordNotFound for an unknown operation", func() {
			_, err := s.Operation().Get(context.TODO(), "op-unknown")
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})

		It("refuses a duplicate operation id", func() {
			_, err := s.Operation().Create(context.TODO(), model.PublishOperation{
				OperationID: "op-dup", EntityType: model.EntityTypeProfile, EntityID: uuid.New(), Status: model.PublishStatusPending,
			})
			Expect(err).To(BeNil())

			_, err = s.Operation().Create(context.TODO(), model.PublishOperation{
				OperationID: "op-dup", EntityType: model.EntityTypeProfile, EntityID: uuid.New(), Status: model.PublishStatusPending,
			})
			Expect(err).To(MatchError(store.ErrDuplicateKey))
		})
	})

	Context("UpdateStatus", func() {
		It("advances a live operation", func() {
			_, err := s.Operation().Create(context.TODO(), model.PublishOperation{
				OperationID: "op-live", EntityType: model.EntityTypeProject, EntityID: uuid.New(), Status: model.PublishStatusPending,
			})
			Expect(err).To(BeNil())

			Expect(s.Operation().UpdateStatus(context.TODO(), "op-live", model.PublishStatusPublishing)).To(Succeed())
			Expect(s.Operation().UpdateStatus(context.TODO(), "op-live", model.PublishStatusCompleted)).To(Succeed())

			fetched, err := s.Operation().Get(context.TODO(), "op-live")
			Expect(err).To(BeNil())
			Expect(fetched.Status).To(Equal(model.PublishStatusCompleted))
		})

		It("refuses to leave a terminal state", func() {
			_, err := s.Operation().Create(context.TODO(), model.PublishOperation{
				OperationID: "op-done", EntityType: model.EntityTypeProject, EntityID: uuid.New(), Status: model.PublishStatusFailed,
			})
			Expect(err).To(BeNil())

			err = s.Operation().UpdateStatus(context.TODO(), "op-done", model.PublishStatusCompleted)
			Expect(err).To(MatchError(store.ErrTerminalState))
		})

		It("distinguishes a missing row from a terminal one", func() {
			err := s.Operation().UpdateStatus(context.TODO(), "op-ghost", model.PublishStatusCompleted)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("IncrementAttempts", func() {
		It("counts attempts one by one", func() {
			_, err := s.Operation().Create(context.TODO(), model.PublishOperation{
				OperationID: "op-retry", EntityType: model.EntityTypeEndorsement, EntityID: uuid.New(), Status: model.PublishStatusPublishing,
			})
			Expect(err).To(BeNil())

			Expect(s.Operation().IncrementAttempts(context.TODO(), "op-retry")).To(Succeed())
			Expect(s.Operation().IncrementAttempts(context.TODO(), "op-retry")).To(Succeed())

			fetched, err := s.Operation().Get(context.TODO(), "op-retry")
			Expect(err).To(BeNil())
			Expect(fetched.Attempts).To(Equal(2))
		})
	})
})
