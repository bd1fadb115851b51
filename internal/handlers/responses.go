package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/devledger/devledger/internal/service"
	"github.com/devledger/devledger/internal/store/model"
	"github.com/devledger/devledger/pkg/requestid"
)

// PublishReply acknowledges an accepted submission. The caller polls the
// status endpoint with the operation id.
type PublishReply struct {
	OperationID string `json:"operationId"`
	Status      string `json:"status"`
}

func (PublishReply) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusAccepted)
	return nil
}

type StatusReply struct {
	OperationID string    `json:"operationId"`
	EntityType  string    `json:"entityType"`
	EntityID    uuid.UUID `json:"entityId"`
	Status      string    `json:"status"`
	Attempts    int       `json:"attempts"`
	UAL         *string   `json:"ual,omitempty"`
	DatasetRoot *string   `json:"datasetRoot,omitempty"`
	Error       *string   `json:"error,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (StatusReply) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

func statusReply(s *service.PublishStatus) StatusReply {
	return StatusReply{
		OperationID: s.OperationID,
		EntityType:  s.EntityType,
		EntityID:    s.EntityID,
		Status:      s.Status,
		Attempts:    s.Attempts,
		UAL:         s.UAL,
		DatasetRoot: s.DatasetRoot,
		Error:       s.Error,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type PublishStateReply struct {
	OperationID *string `json:"operationId,omitempty"`
	Status      string  `json:"status"`
	UAL         *string `json:"ual,omitempty"`
	DatasetRoot *string `json:"datasetRoot,omitempty"`
	Error       *string `json:"error,omitempty"`
}

func publishStateReply(e model.PublishEnvelope) PublishStateReply {
	return PublishStateReply{
		OperationID: e.OperationID,
		Status:      e.PublishStatus,
		UAL:         e.UAL,
		DatasetRoot: e.DatasetRoot,
		Error:       e.PublishError,
	}
}

type ProfileReply struct {
	ID            uuid.UUID         `json:"id"`
	Username      string            `json:"username"`
	DisplayName   string            `json:"displayName,omitempty"`
	Bio           string            `json:"bio,omitempty"`
	Skills        []string          `json:"skills,omitempty"`
	GithubURL     string            `json:"githubUrl,omitempty"`
	WalletAddress string            `json:"walletAddress,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	Publish       PublishStateReply `json:"publish"`
}

func (ProfileReply) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

func profileReply(p model.Profile) ProfileReply {
	reply := ProfileReply{
		ID:            p.ID,
		Username:      p.Username,
		DisplayName:   p.DisplayName,
		Bio:           p.Bio,
		GithubURL:     p.GithubURL,
		WalletAddress: p.WalletAddress,
		CreatedAt:     p.CreatedAt,
		Publish:       publishStateReply(p.Publish),
	}
	if p.Skills != nil {
		reply.Skills = p.Skills.Data
	}
	return reply
}

type ProjectReply struct {
	ID           uuid.UUID         `json:"id"`
	ProfileID    uuid.UUID         `json:"profileId"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	RepoURL      string            `json:"repoUrl"`
	RepoPushedAt time.Time         `json:"repoPushedAt"`
	AnalysisHash string            `json:"analysisHash,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	Publish      PublishStateReply `json:"publish"`
}

func (ProjectReply) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

func projectReply(p model.Project) ProjectReply {
	return ProjectReply{
		ID:           p.ID,
		ProfileID:    p.ProfileID,
		Name:         p.Name,
		Description:  p.Description,
		RepoURL:      p.RepoURL,
		RepoPushedAt: p.RepoPushedAt,
		AnalysisHash: p.AnalysisHash,
		CreatedAt:    p.CreatedAt,
		Publish:      publishStateReply(p.Publish),
	}
}

type EndorsementReply struct {
	ID         uuid.UUID         `json:"id"`
	EndorserID uuid.UUID         `json:"endorserId"`
	EndorseeID uuid.UUID         `json:"endorseeId"`
	ProjectID  *uuid.UUID        `json:"projectId,omitempty"`
	Comment    string            `json:"comment,omitempty"`
	Weight     int               `json:"weight"`
	CreatedAt  time.Time         `json:"createdAt"`
	Publish    PublishStateReply `json:"publish"`
}

func (EndorsementReply) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

func endorsementReply(e model.Endorsement) EndorsementReply {
	return EndorsementReply{
		ID:         e.ID,
		EndorserID: e.EndorserID,
		EndorseeID: e.EndorseeID,
		ProjectID:  e.ProjectID,
		Comment:    e.Comment,
		Weight:     e.Weight,
		CreatedAt:  e.CreatedAt,
		Publish:    publishStateReply(e.Publish),
	}
}

type ErrorReply struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`

	code int
}

func (e ErrorReply) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.code)
	return nil
}

func newErrorReply(r *http.Request, code int, message string) ErrorReply {
	return ErrorReply{
		Message:   message,
		RequestID: requestid.FromRequest(r),
		code:      code,
	}
}

// renderServiceError maps the typed service errors onto HTTP codes.
func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch err.(type) {
	case *service.ErrResourceNotFound, *service.ErrOperationNotFound:
		code = http.StatusNotFound
	case *service.ErrInvalidRequest:
		code = http.StatusBadRequest
	case *service.ErrAlreadyExists:
		code = http.StatusConflict
	}

	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "internal server error"
	}
	_ = render.Render(w, r, newErrorReply(r, code, message))
}
