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

var _ = Describe("ProfileService", Ordered, func() {
	var (
		s   store.Store
		svc *service.ProfileService
	)

	BeforeAll(func() {
		s = newTestStore("file:svc_profiles?mode=memory&cache=shared")
		svc = service.NewProfileService(s, &stubPublisher{store: s})
	})

	AfterAll(func() {
		s.Close()
	})

	Context("CreateProfile", func() {
		It("submits the profile and hands back its operation", func() {
			profile, operation, err := svc.CreateProfile(context.TODO(), mappers.ProfileCreateForm{
				Username:    "ada",
				DisplayName: "Ada L",
				Skills:      []string{"go"},
			})
			Expect(err).To(BeNil())
			Expect(profile.Username).To(Equal("ada"))
			Expect(operation.Status).To(Equal(model.PublishStatusPublishing))
			Expect(operation.OperationID).To(HavePrefix("op-"))
		})

		It("rejects an empty username", func() {
			_, _, err := svc.CreateProfile(context.TODO(), mappers.ProfileCreateForm{Username: "   "})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidRequest{}))
		})

		It("rejects a taken username", func() {
			_, _, err := svc.CreateProfile(context.TODO(), mappers.ProfileCreateForm{Username: "bob"})
			Expect(err).To(BeNil())

			_, _, err = svc.CreateProfile(context.TODO(), mappers.ProfileCreateForm{Username: "bob"})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrAlreadyExists{}))
		})
	})

	Context("GetProfile", func() {
		It("wraps a miss in ErrResourceNotFound", func() {
			profile, _, err := svc.CreateProfile(context.TODO(), mappers.ProfileCreateForm{Username: "carol"})
			Expect(err).To(BeNil())

			fetched, err := svc.GetProfile(context.TODO(), profile.ID)
			Expect(err).To(BeNil())
			Expect(fetched.Username).To(Equal("carol"))

			_, err = svc.GetProfile(context.TODO(), uuid.New())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})
})
