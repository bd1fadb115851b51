package store_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/devledger/devledger/internal/analysis"
	"github.com/devledger/devledger/internal/config"
	"github.com/devledger/devledger/internal/store"
)

var _ = Describe("AnalysisStore", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		cfg.Database.Type = "sqlite"
		cfg.Database.Name = "file:analyses?mode=memory&cache=shared"

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
		gormdb.Exec("DELETE FROM analyses")
	})

	Context("GetRecord", func() {
		It("returns nil for an unknown hash", func() {
			record, err := s.Analysis().GetRecord(context.TODO(), "deadbeef")
			Expect(err).To(BeNil())
			Expect(record).To(BeNil())
		})
	})

	Context("InsertRecord", func() {
		It("stores and returns the record", func() {
			stored, err := s.Analysis().InsertRecord(context.TODO(), analysis.Record{
				Hash:      "hash-1",
				Narrative: "a lively repository",
				Score:     72,
				Breakdown: analysis.ScoreBreakdown{Activity: 20, Structure: 22, Narrative: 12, Popularity: 18},
			})
			Expect(err).To(BeNil())
			Expect(stored.Score).To(Equal(72))

			fetched, err := s.Analysis().GetRecord(context.TODO(), "hash-1")
			Expect(err).To(BeNil())
			Expect(fetched).NotTo(BeNil())
			Expect(fetched.Narrative).To(Equal("a lively repository"))
			Expect(fetched.Breakdown.Structure).To(Equal(22))
		})

		It("keeps the first record on a duplicate insert", func() {
			first, err := s.Analysis().InsertRecord(context.TODO(), analysis.Record{
				Hash: "hash-2", Narrative: "first", Score: 10,
			})
			Expect(err).To(BeNil())
			Expect(first.Narrative).To(Equal("first"))

			second, err := s.Analysis().InsertRecord(context.TODO(), analysis.Record{
				Hash: "hash-2", Narrative: "second", Score: 99,
			})
			Expect(err).To(BeNil())
			Expect(second.Narrative).To(Equal("first"))
			Expect(second.Score).To(Equal(10))

			rows, err := s.Analysis().List(context.TODO())
			Expect(err).To(BeNil())
			Expect(rows).To(HaveLen(1))
		})
	})
})
