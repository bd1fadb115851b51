package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/devledger/devledger/internal/analysis"
	"github.com/devledger/devledger/internal/handlers/validator"
	"github.com/devledger/devledger/internal/service/mappers"
)

type ProfileCreateRequest struct {
	Username      string   `json:"username" validate:"required,max=64,username"`
	DisplayName   string   `json:"displayName" validate:"omitempty,max=128"`
	Bio           string   `json:"bio"`
	Skills        []string `json:"skills"`
	GithubURL     string   `json:"githubUrl" validate:"omitempty,url"`
	WalletAddress string   `json:"walletAddress"`
}

func (r *ProfileCreateRequest) Bind(_ *http.Request) error {
	v := validator.NewValidator()
	v.Register(validator.NewProfileValidationRules()...)
	return v.Struct(r)
}

func (r *ProfileCreateRequest) ToForm() mappers.ProfileCreateForm {
	return mappers.ProfileCreateForm{
		Username:      r.Username,
		DisplayName:   r.DisplayName,
		Bio:           r.Bio,
		Skills:        r.Skills,
		GithubURL:     r.GithubURL,
		WalletAddress: r.WalletAddress,
	}
}

type ProjectCreateRequest struct {
	ProfileID    string               `json:"profileId" validate:"required,uuid"`
	Name         string               `json:"name" validate:"required,not_blank,max=128"`
	Description  string               `json:"description"`
	RepoURL      string               `json:"repoUrl" validate:"required,url"`
	RepoPushedAt time.Time            `json:"repoPushedAt" validate:"required"`
	Metrics      analysis.RepoMetrics `json:"metrics"`

	profileID uuid.UUID
}

func (r *ProjectCreateRequest) Bind(_ *http.Request) error {
	v := validator.NewValidator()
	v.Register(validator.NewProjectValidationRules()...)
	if err := v.Struct(r); err != nil {
		return err
	}

	id, err := uuid.Parse(r.ProfileID)
	if err != nil {
		return err
	}
	r.profileID = id
	return nil
}

func (r *ProjectCreateRequest) ToForm() mappers.ProjectCreateForm {
	return mappers.ProjectCreateForm{
		ProfileID:    r.profileID,
		Name:         r.Name,
		Description:  r.Description,
		RepoURL:      r.RepoURL,
		RepoPushedAt: r.RepoPushedAt,
		Metrics:      r.Metrics,
	}
}

type EndorsementCreateRequest struct {
	EndorserID string  `json:"endorserId" validate:"required,uuid"`
	EndorseeID string  `json:"endorseeId" validate:"required,uuid"`
	ProjectID  *string `json:"projectId,omitempty" validate:"omitempty,uuid"`
	Comment    string  `json:"comment" validate:"omitempty,max=500"`
	// Weight 0 means the caller left it out; the mapper defaults it to 1.
	Weight int `json:"weight" validate:"omitempty,min=1,max=10"`

	endorserID uuid.UUID
	endorseeID uuid.UUID
	projectID  *uuid.UUID
}

func (r *EndorsementCreateRequest) Bind(_ *http.Request) error {
	v := validator.NewValidator()
	v.Register(validator.NewEndorsementValidationRules()...)
	if err := v.Struct(r); err != nil {
		return err
	}

	endorserID, err := uuid.Parse(r.EndorserID)
	if err != nil {
		return err
	}
	endorseeID, err := uuid.Parse(r.EndorseeID)
	if err != nil {
		return err
	}
	r.endorserID = endorserID
	r.endorseeID = endorseeID

	if r.ProjectID != nil {
		projectID, err := uuid.Parse(*r.ProjectID)
		if err != nil {
			return err
		}
		r.projectID = &projectID
	}
	return nil
}

func (r *EndorsementCreateRequest) ToForm() mappers.EndorsementCreateForm {
	return mappers.EndorsementCreateForm{
		EndorserID: r.endorserID,
		EndorseeID: r.endorseeID,
		ProjectID:  r.projectID,
		Comment:    r.Comment,
		Weight:     r.Weight,
	}
}
