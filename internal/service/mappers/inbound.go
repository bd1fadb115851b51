package mappers

import (
	"time"

	"github.com/google/uuid"

	"github.com/devledger/devledger/internal/analysis"
	"github.com/devledger/devledger/internal/store/model"
)

type ProfileCreateForm struct {
	Username      string `validate:"required,max=64,username"`
	DisplayName   string `validate:"omitempty,max=128"`
	Bio           string
	Skills        []string
	GithubURL     string `validate:"omitempty,url"`
	WalletAddress string
}

func (f ProfileCreateForm) ToProfile() model.Profile {
	profile := model.Profile{
		ID:            uuid.New(),
		Username:      f.Username,
		DisplayName:   f.DisplayName,
		Bio:           f.Bio,
		GithubURL:     f.GithubURL,
		WalletAddress: f.WalletAddress,
	}
	if len(f.Skills) > 0 {
		profile.Skills = model.MakeJSONField(f.Skills)
	}
	return profile
}

type ProjectCreateForm struct {
	ProfileID    uuid.UUID `validate:"entity_ref"`
	Name         string    `validate:"required,not_blank,max=128"`
	Description  string
	RepoURL      string    `validate:"required,url"`
	RepoPushedAt time.Time `validate:"required"`
	Metrics      analysis.RepoMetrics
}

func (f ProjectCreateForm) ToProject() model.Project {
	return model.Project{
		ID:           uuid.New(),
		ProfileID:    f.ProfileID,
		Name:         f.Name,
		Description:  f.Description,
		RepoURL:      f.RepoURL,
		RepoPushedAt: f.RepoPushedAt,
		Metrics:      model.MakeJSONField(f.Metrics),
	}
}

type EndorsementCreateForm struct {
	EndorserID uuid.UUID `validate:"entity_ref"`
	EndorseeID uuid.UUID `validate:"entity_ref"`
	ProjectID  *uuid.UUID
	Comment    string `validate:"omitempty,max=500"`
	// Weight 0 is treated as omitted and defaults to 1.
	Weight int `validate:"omitempty,min=1,max=10"`
}

func (f EndorsementCreateForm) ToEndorsement() model.Endorsement {
	// zero weight means the caller omitted it
	weight := f.Weight
	if weight == 0 {
		weight = 1
	}
	return model.Endorsement{
		ID:         uuid.New(),
		EndorserID: f.EndorserID,
		EndorseeID: f.EndorseeID,
		ProjectID:  f.ProjectID,
		Comment:    f.Comment,
		Weight:     weight,
	}
}
