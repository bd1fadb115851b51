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

var _ = Describe("ProfileStore", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		cfg.Database.Type = "sqlite"
		cfg.Database.Name = "file:profiles?mode=memory&cache=shared"

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
		gormdb.Exec("DELETE FROM profiles")
	})

	Context("Create", func() {
		It("stores a profile with a pending envelope", func() {
			created, err := s.Profile().Create(context.TODO(), model.Profile{
				ID:       uuid.New(),
				Username: "ada",
				Skills:   model.MakeJSONField([]string{"go", "sql"}),
			})
			Expect(err).To(BeNil())

			fetched, err := s.Profile().Get(context.TODO(), created.ID)
			Expect(err).To(BeNil())
			Expect(fetched.Username).To(Equal("ada"))
			Expect(fetched.Skills.Data).To(Equal([]string{"go", "sql"}))
			Expect(fetched.Publish.PublishStatus).To(Equal(model.PublishStatusPending))
			Expect(fetched.Publish.UAL).To(BeNil())
		})

		It("rejects a duplicate username", func() {
			_, err := s.Profile().Create(context.TODO(), model.Profile{ID: uuid.New(), Username: "bob"})
			Expect(err).To(BeNil())

			_, err = s.Profile().Create(context.TODO(), model.Profile{ID: uuid.New(), Username: "bob"})
			Expect(err).To(MatchError(store.ErrDuplicateKey))
		})
	})

	Context("GetByUsername", func() {
		It("finds the row", func() {
			created, err := s.Profile().Create(context.TODO(), model.Profile{ID: uuid.New(), Username: "carol"})
			Expect(err).To(BeNil())

			fetched, err := s.Profile().GetByUsername(context.TODO(), "carol")
			Expect(err).To(BeNil())
			Expect(fetched.ID).To(Equal(created.ID))
		})

		It("returns ErrRecordNotFound otherwise", func() {
			_, err := s.Profile().GetByUsername(context.TODO(), "nobody")
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("UpdatePublishState", func() {
		It("moves the envelope along the lifecycle", func() {
			created, err := s.Profile().Create(context.TODO(), model.Profile{ID: uuid.New(), Username: "dave"})
			Expect(err).To(BeNil())

			opID := "op-x"
			Expect(s.Profile().UpdatePublishState(context.TODO(), created.ID, model.PublishEnvelope{
				OperationID:   &opID,
				PublishStatus: model.PublishStatusPublishing,
			})).To(Succeed())

			ual := "did:dkg:testnet/0x1/1"
			root := "0xroot"
			Expect(s.Profile().UpdatePublishState(context.TODO(), created.ID, model.PublishEnvelope{
				OperationID:   &opID,
				PublishStatus: model.PublishStatusCompleted,
				UAL:           &ual,
				DatasetRoot:   &root,
			})).To(Succeed())

			fetched, err := s.Profile().Get(context.TODO(), created.ID)
			Expect(err).To(BeNil())
			Expect(fetched.Publish.PublishStatus).To(Equal(model.PublishStatusCompleted))
			Expect(*fetched.Publish.UAL).To(Equal(ual))
			Expect(*fetched.Publish.DatasetRoot).To(Equal(root))

			err = s.Profile().UpdatePublishState(context.TODO(), created.ID, model.PublishEnvelope{
				PublishStatus: model.PublishStatusFailed,
			})
			Expect(err).To(MatchError(store.ErrTerminalState))
		})

		It("returns ErrRecordNotFound for a missing profile", func() {
			err := s.Profile().UpdatePublishState(context.TODO(), uuid.New(), model.PublishEnvelope{
				PublishStatus: model.PublishStatusPublishing,
			})
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})
})
