package service

import (
	"context"

	"github.com/devledger/devledger/internal/publish"
	"github.com/devledger/devledger/internal/store/model"
)

// Publisher is the slice of the orchestrator the services depend on.
type Publisher interface {
	SubmitProfile(ctx context.Context, profile model.Profile) (*model.Profile, *model.PublishOperation, error)
	SubmitProject(ctx context.Context, project model.Project) (*model.Project, *model.PublishOperation, error)
	SubmitEndorsement(ctx context.Context, endorsement model.Endorsement) (*model.Endorsement, *model.PublishOperation, error)
}

var _ Publisher = (*publish.Orchestrator)(nil)
