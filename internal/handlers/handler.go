package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/devledger/devledger/internal/service"
)

// ServiceHandler exposes the publish-and-track API. Every create endpoint
// answers 202 with an operation id; the status endpoints are the only way
// to observe publish progress.
type ServiceHandler struct {
	profiles     *service.ProfileService
	projects     *service.ProjectService
	endorsements *service.EndorsementService
	status       *service.StatusService
}

func NewServiceHandler(
	profiles *service.ProfileService,
	projects *service.ProjectService,
	endorsements *service.EndorsementService,
	status *service.StatusService,
) *ServiceHandler {
	return &ServiceHandler{
		profiles:     profiles,
		projects:     projects,
		endorsements: endorsements,
		status:       status,
	}
}

func (h *ServiceHandler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.Health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/profiles", func(r chi.Router) {
			r.Post("/", h.CreateProfile)
			r.Get("/", h.ListProfiles)
			r.Get("/{id}", h.GetProfile)
			r.Get("/status/{operationId}", h.GetStatus)
		})
		r.Route("/projects", func(r chi.Router) {
			r.Post("/", h.CreateProject)
			r.Get("/", h.ListProjects)
			r.Get("/{id}", h.GetProject)
			r.Get("/status/{operationId}", h.GetStatus)
		})
		r.Route("/endorsements", func(r chi.Router) {
			r.Post("/", h.CreateEndorsement)
			r.Get("/", h.ListEndorsements)
			r.Get("/{id}", h.GetEndorsement)
			r.Get("/status/{operationId}", h.GetStatus)
		})
	})
}

func (h *ServiceHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *ServiceHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	request := new(ProfileCreateRequest)
	if err := render.Bind(r, request); err != nil {
		_ = render.Render(w, r, newErrorReply(r, http.StatusBadRequest, err.Error()))
		return
	}

	_, operation, err := h.profiles.CreateProfile(r.Context(), request.ToForm())
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	_ = render.Render(w, r, PublishReply{OperationID: operation.OperationID, Status: operation.Status})
}

func (h *ServiceHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = render.Render(w, r, newErrorReply(r, http.StatusBadRequest, "id must be a valid uuid"))
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	_ = render.Render(w, r, profileReply(*profile))
}

func (h *ServiceHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.ListProfiles(r.Context())
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	replies := make([]render.Renderer, 0, len(profiles))
	for _, p := range profiles {
		replies = append(replies, profileReply(p))
	}
	_ = render.RenderList(w, r, replies)
}

func (h *ServiceHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	request := new(ProjectCreateRequest)
	if err := render.Bind(r, request); err != nil {
		_ = render.Render(w, r, newErrorReply(r, http.StatusBadRequest, err.Error()))
		return
	}

	_, operation, err := h.projects.CreateProject(r.Context(), request.ToForm())
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	_ = render.Render(w, r, PublishReply{OperationID: operation.OperationID, Status: operation.Status})
}

func (h *ServiceHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = render.Render(w, r, newErrorReply(r, http.StatusBadRequest, "id must be a valid uuid"))
		return
	}

	project, err := h.projects.GetProject(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	_ = render.Render(w, r, projectReply(*project))
}

func (h *ServiceHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	var profileID *uuid.UUID
	if raw := r.URL.Query().Get("profileId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			_ = render.Render(w, r, newErrorReply(r, http.StatusBadRequest, "profileId must be a valid uuid"))
			return
		}
		profileID = &id
	}

	projects, err := h.projects.ListProjects(r.Context(), profileID)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	replies := make([]render.Renderer, 0, len(projects))
	for _, p := range projects {
		replies = append(replies, projectReply(p))
	}
	_ = render.RenderList(w, r, replies)
}

func (h *ServiceHandler) CreateEndorsement(w http.ResponseWriter, r *http.Request) {
	request := new(EndorsementCreateRequest)
	if err := render.Bind(r, request); err != nil {
		_ = render.Render(w, r, newErrorReply(r, http.StatusBadRequest, err.Error()))
		return
	}

	_, operation, err := h.endorsements.CreateEndorsement(r.Context(), request.ToForm())
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	_ = render.Render(w, r, PublishReply{OperationID: operation.OperationID, Status: operation.Status})
}

func (h *ServiceHandler) GetEndorsement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = render.Render(w, r, newErrorReply(r, http.StatusBadRequest, "id must be a valid uuid"))
		return
	}

	endorsement, err := h.endorsements.GetEndorsement(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	_ = render.Render(w, r, endorsementReply(*endorsement))
}

func (h *ServiceHandler) ListEndorsements(w http.ResponseWriter, r *http.Request) {
	var endorseeID *uuid.UUID
	if raw := r.URL.Query().Get("endorseeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			_ = render.Render(w, r, newErrorReply(r, http.StatusBadRequest, "endorseeId must be a valid uuid"))
			return
		}
		endorseeID = &id
	}

	endorsements, err := h.endorsements.ListEndorsements(r.Context(), endorseeID)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	replies := make([]render.Renderer, 0, len(endorsements))
	for _, e := range endorsements {
		replies = append(replies, endorsementReply(e))
	}
	_ = render.RenderList(w, r, replies)
}

func (h *ServiceHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	operationID := chi.URLParam(r, "operationId")
	if operationID == "" {
		_ = render.Render(w, r, newErrorReply(r, http.StatusBadRequest, "operationId is required"))
		return
	}

	status, err := h.status.GetStatus(r.Context(), operationID)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	_ = render.Render(w, r, statusReply(status))
}
