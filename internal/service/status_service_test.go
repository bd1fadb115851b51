package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/devledger/devledger/internal/service"
	"github.com/devledger/devledger/internal/service/mappers"
	"github.com/devledger/devledger/internal/store"
	"github.com/devledger/devledger/internal/store/model"
)

var _ = Describe("StatusService", Ordered, func() {
	var (
		s          store.Store
		svc        *service.StatusService
		profileSvc *service.ProfileService
	)

	BeforeAll(func() {
		s = newTestStore("file:svc_status?mode=memory&cache=shared")
		svc = service.NewStatusService(s)
		profileSvc = service.NewProfileService(s, &stubPublisher{store: s})
	})

	AfterAll(func() {
		s.Close()
	})

	Context("GetStatus", func() {
		It("reports a publishing operation without ledger fields", func() {
			profile, operation, err := profileSvc.CreateProfile(context.TODO(), mappers.ProfileCreateForm{Username: "ivan"})
			Expect(err).To(BeNil())

			status, err := svc.GetStatus(context.TODO(), operation.OperationID)
			Expect(err).To(BeNil())
			Expect(status.Status).To(Equal(model.PublishStatusPublishing))
			Expect(status.EntityType).To(Equal(model.EntityTypeProfile))
			Expect(status.EntityID).To(Equal(profile.ID))
			Expect(status.UAL).To(BeNil())
			Expect(status.DatasetRoot).To(BeNil())
			Expect(status.Error).To(BeNil())
		})

		It("exposes the ledger fields once the publish completed", func() {
			profile, operation, err := profileSvc.CreateProfile(context.TODO(), mappers.ProfileCreateForm{Username: "judy"})
			Expect(err).To(BeNil())

			ual := "did:dkg:testnet/0xfeed/3"
			root := "0xroot3"
			Expect(s.Profile().UpdatePublishState(context.TODO(), profile.ID, model.PublishEnvelope{
				OperationID:   &operation.OperationID,
				PublishStatus: model.PublishStatusCompleted,
				UAL:           &ual,
				DatasetRoot:   &root,
			})).To(Succeed())
			Expect(s.Operation().UpdateStatus(context.TODO(), operation.OperationID, model.PublishStatusCompleted)).To(Succeed())

			status, err := svc.GetStatus(context.TODO(), operation.OperationID)
			Expect(err).To(BeNil())
			Expect(status.Status).To(Equal(model.PublishStatusCompleted))
			Expect(*status.UAL).To(Equal(ual))
			Expect(*status.DatasetRoot).To(Equal(root))
			Expect(status.Error).To(BeNil())
		})

		It("exposes the failure message once the publish failed", func() {
			profile, operation, err := profileSvc.CreateProfile(context.TODO(), mappers.ProfileCreateForm{Username: "kyle"})
			Expect(err).To(BeNil())

			message := "ledger node rejected the asset (status 422): content too large"
			Expect(s.Profile().UpdatePublishState(context.TODO(), profile.ID, model.PublishEnvelope{
				OperationID:   &operation.OperationID,
				PublishStatus: model.PublishStatusFailed,
				PublishError:  &message,
			})).To(Succeed())
			Expect(s.Operation().UpdateStatus(context.TODO(), operation.OperationID, model.PublishStatusFailed)).To(Succeed())

			status, err := svc.GetStatus(context.TODO(), operation.OperationID)
			Expect(err).To(BeNil())
			Expect(status.Status).To(Equal(model.PublishStatusFailed))
			Expect(status.UAL).To(BeNil())
			Expect(*status.Error).To(Equal(message))
		})

		It("wraps a miss in ErrOperationNotFound", func() {
			_, err := svc.GetStatus(context.TODO(), "op-missing")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrOperationNotFound{}))
		})
	})
})
