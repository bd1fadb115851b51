package service_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/devledger/devledger/internal/service"
	"github.com/devledger/devledger/internal/service/mappers"
	"github.com/devledger/devledger/internal/store"
	"github.com/devledger/devledger/internal/store/model"
)

var _ = Describe("EndorsementService", Ordered, func() {
	var (
		s          store.Store
		svc        *service.EndorsementService
		profileSvc *service.ProfileService
		endorser   *model.Profile
		endorsee   *model.Profile
	)

	BeforeAll(func() {
		s = newTestStore("file:svc_endorsements?mode=memory&cache=shared")
		publisher := &stubPublisher{store: s}
		svc = service.NewEndorsementService(s, publisher)
		profileSvc = service.NewProfileService(s, publisher)

		var err error
		endorser, _, err = profileSvc.CreateProfile(context.TODO(), mappers.ProfileCreateForm{Username: "gina"})
		Expect(err).To(BeNil())
		endorsee, _, err = profileSvc.CreateProfile(context.TODO(), mappers.ProfileCreateForm{Username: "hugo"})
		Expect(err).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	Context("CreateEndorsement", func() {
		It("submits a valid endorsement", func() {
			endorsement, operation, err := svc.CreateEndorsement(context.TODO(), mappers.EndorsementCreateForm{
				EndorserID: endorser.ID,
				EndorseeID: endorsee.ID,
				Comment:    "great reviewer",
				Weight:     3,
			})
			Expect(err).To(BeNil())
			Expect(endorsement.Weight).To(Equal(3))
			Expect(operation.EntityType).To(Equal(model.EntityTypeEndorsement))
		})

		It("defaults the weight to one", func() {
			endorsement, _, err := svc.CreateEndorsement(context.TODO(), mappers.EndorsementCreateForm{
				EndorserID: endorser.ID,
				EndorseeID: endorsee.ID,
			})
			Expect(err).To(BeNil())
			Expect(endorsement.Weight).To(Equal(1))
		})

		It("rejects a self endorsement", func() {
			_, _, err := svc.CreateEndorsement(context.TODO(), mappers.EndorsementCreateForm{
				EndorserID: endorser.ID,
				EndorseeID: endorser.ID,
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidRequest{}))
		})

		It("rejects an out-of-range weight", func() {
			_, _, err := svc.CreateEndorsement(context.TODO(), mappers.EndorsementCreateForm{
				EndorserID: endorser.ID,
				EndorseeID: endorsee.ID,
				Weight:     11,
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidRequest{}))
		})

		It("rejects a negative weight", func() {
			_, _, err := svc.CreateEndorsement(context.TODO(), mappers.EndorsementCreateForm{
				EndorserID: endorser.ID,
				EndorseeID: endorsee.ID,
				Weight:     -1,
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidRequest{}))
		})

		It("rejects an unknown endorsee", func() {
			_, _, err := svc.CreateEndorsement(context.TODO(), mappers.EndorsementCreateForm{
				EndorserID: endorser.ID,
				EndorseeID: uuid.New(),
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("rejects an unknown project reference", func() {
			unknown := uuid.New()
			_, _, err := svc.CreateEndorsement(context.TODO(), mappers.EndorsementCreateForm{
				EndorserID: endorser.ID,
				EndorseeID: endorsee.ID,
				ProjectID:  &unknown,
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})
})
