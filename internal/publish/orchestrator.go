package publish

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devledger/devledger/internal/analysis"
	"github.com/devledger/devledger/internal/config"
	"github.com/devledger/devledger/internal/ledger"
	"github.com/devledger/devledger/internal/store"
	"github.com/devledger/devledger/internal/store/model"
	"github.com/devledger/devledger/pkg/metrics"
	"github.com/devledger/devledger/pkg/poller"
)

const (
	defaultRetryDelay = 2 * time.Second

	// confirmGrace keeps the task context alive slightly past the
	// confirmation deadline so the terminal store writes still land.
	confirmGrace = 30 * time.Second
)

// Ledger is the slice of the node client the orchestrator needs.
type Ledger interface {
	Publish(ctx context.Context, content map[string]any, meta ledger.Metadata, opts ledger.PublishOptions) (*ledger.Handle, error)
	AwaitConfirmation(ctx context.Context, assetID string, limit time.Duration) (*ledger.Confirmation, error)
}

var _ Ledger = (*ledger.Client)(nil)

// Orchestrator owns the background publish tasks. Submitting an entity
// stores it, creates its operation row and spawns one goroutine that drives
// the publish to a terminal state. Submissions return immediately; progress
// is observed through the operation row.
type Orchestrator struct {
	store      store.Store
	node       Ledger
	cache      *analysis.Cache
	cfg        *config.LedgerConfig
	retryDelay time.Duration
	wg         sync.WaitGroup
}

type OrchestratorOption func(*Orchestrator)

// WithRetryDelay sets the delay between transport-level publish retries.
func WithRetryDelay(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.retryDelay = d }
}

func NewOrchestrator(s store.Store, node Ledger, cache *analysis.Cache, cfg *config.LedgerConfig, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		store:      s,
		node:       node,
		cache:      cache,
		cfg:        cfg,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Wait blocks until every in-flight publish task reached a terminal state.
// Used on shutdown.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) SubmitProfile(ctx context.Context, profile model.Profile) (*model.Profile, *model.PublishOperation, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	created, operation, err := o.submit(ctx, model.EntityTypeProfile, profile.ID, func(ctx context.Context) error {
		stored, err := o.store.Profile().Create(ctx, profile)
		if err != nil {
			return err
		}
		profile = *stored
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	profile.Publish = *created

	o.spawn(model.EntityTypeProfile, profile.ID, operation.OperationID, func(ctx context.Context) (map[string]any, error) {
		return profileContent(profile), nil
	})
	return &profile, operation, nil
}

func (o *Orchestrator) SubmitProject(ctx context.Context, project model.Project) (*model.Project, *model.PublishOperation, error) {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	created, operation, err := o.submit(ctx, model.EntityTypeProject, project.ID, func(ctx context.Context) error {
		stored, err := o.store.Project().Create(ctx, project)
		if err != nil {
			return err
		}
		project = *stored
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	project.Publish = *created

	o.spawn(model.EntityTypeProject, project.ID, operation.OperationID, func(ctx context.Context) (map[string]any, error) {
		record, err := o.analyzeProject(ctx, project)
		if err != nil {
			return nil, err
		}
		owner, err := o.store.Profile().Get(ctx, project.ProfileID)
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}
		return projectContent(project, owner, record), nil
	})
	return &project, operation, nil
}

func (o *Orchestrator) SubmitEndorsement(ctx context.Context, endorsement model.Endorsement) (*model.Endorsement, *model.PublishOperation, error) {
	if endorsement.ID == uuid.Nil {
		endorsement.ID = uuid.New()
	}
	created, operation, err := o.submit(ctx, model.EntityTypeEndorsement, endorsement.ID, func(ctx context.Context) error {
		stored, err := o.store.Endorsement().Create(ctx, endorsement)
		if err != nil {
			return err
		}
		endorsement = *stored
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	endorsement.Publish = *created

	o.spawn(model.EntityTypeEndorsement, endorsement.ID, operation.OperationID, func(ctx context.Context) (map[string]any, error) {
		endorser, err := o.store.Profile().Get(ctx, endorsement.EndorserID)
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}
		endorsee, err := o.store.Profile().Get(ctx, endorsement.EndorseeID)
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}
		var project *model.Project
		if endorsement.ProjectID != nil {
			project, err = o.store.Project().Get(ctx, *endorsement.ProjectID)
			if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
				return nil, err
			}
		}
		return endorsementContent(endorsement, endorser, endorsee, project), nil
	})
	return &endorsement, operation, nil
}

// submit stores the entity and its operation row in one transaction, then
// advances both to publishing.
func (o *Orchestrator) submit(ctx context.Context, entityType string, entityID uuid.UUID, createEntity func(ctx context.Context) error) (*model.PublishEnvelope, *model.PublishOperation, error) {
	operationID := newOperationID()

	txCtx, err := o.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err := createEntity(txCtx); err != nil {
		_, _ = store.Rollback(txCtx)
		return nil, nil, err
	}
	operation, err := o.store.Operation().Create(txCtx, model.PublishOperation{
		OperationID: operationID,
		EntityType:  entityType,
		EntityID:    entityID,
		Status:      model.PublishStatusPending,
	})
	if err != nil {
		_, _ = store.Rollback(txCtx)
		return nil, nil, err
	}
	if _, err := store.Commit(txCtx); err != nil {
		return nil, nil, err
	}

	envelope := model.PublishEnvelope{
		OperationID:   &operationID,
		PublishStatus: model.PublishStatusPublishing,
	}
	if err := o.advance(ctx, entityType, entityID, operationID, envelope); err != nil {
		return nil, nil, err
	}
	operation.Status = model.PublishStatusPublishing

	return &envelope, operation, nil
}

// advance moves the entity envelope and its operation row in one transaction
// so a status poll never observes one without the other.
func (o *Orchestrator) advance(ctx context.Context, entityType string, entityID uuid.UUID, operationID string, envelope model.PublishEnvelope) error {
	txCtx, err := o.store.NewTransactionContext(ctx)
	if err != nil {
		return err
	}
	if err := o.updateEntityPublishState(txCtx, entityType, entityID, envelope); err != nil {
		_, _ = store.Rollback(txCtx)
		return err
	}
	if err := o.store.Operation().UpdateStatus(txCtx, operationID, envelope.PublishStatus); err != nil {
		_, _ = store.Rollback(txCtx)
		return err
	}
	_, err = store.Commit(txCtx)
	return err
}

func (o *Orchestrator) spawn(entityType string, entityID uuid.UUID, operationID string, buildContent func(ctx context.Context) (map[string]any, error)) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.runPublish(entityType, entityID, operationID, buildContent)
	}()
}

func (o *Orchestrator) runPublish(entityType string, entityID uuid.UUID, operationID string, buildContent func(ctx context.Context) (map[string]any, error)) {
	log := zap.S().Named("publish").With("operation_id", operationID, "entity_type", entityType)
	start := time.Now()

	// The task outlives the submit request, so it runs on its own context.
	ctx, cancel := context.WithTimeout(context.Background(), o.cfg.ConfirmTimeout+confirmGrace)
	defer cancel()

	confirmation, err := o.publishAsset(ctx, entityType, entityID, operationID, buildContent)

	// terminal writes run on their own context; the task deadline may
	// already have expired
	finishCtx, finishCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer finishCancel()

	if err != nil {
		o.finishFailed(finishCtx, entityType, entityID, operationID, err, log)
	} else {
		o.finishCompleted(finishCtx, entityType, entityID, operationID, confirmation, log)
	}
	metrics.ObservePublishDuration(entityType, time.Since(start))
}

func (o *Orchestrator) publishAsset(ctx context.Context, entityType string, entityID uuid.UUID, operationID string, buildContent func(ctx context.Context) (map[string]any, error)) (*ledger.Confirmation, error) {
	content, err := buildContent(ctx)
	if err != nil {
		return nil, err
	}

	meta := ledger.Metadata{
		EntityType:  entityType,
		EntityID:    entityID.String(),
		OperationID: operationID,
	}
	opts := ledger.PublishOptions{
		Privacy:     o.cfg.Privacy,
		Priority:    o.cfg.Priority,
		Epochs:      o.cfg.Epochs,
		MaxAttempts: o.cfg.MaxAttempts,
	}

	var handle *ledger.Handle
	err = poller.Retry(ctx, func(ctx context.Context) error {
		if err := o.store.Operation().IncrementAttempts(ctx, operationID); err != nil {
			zap.S().Named("publish").Warnf("failed to record attempt for %s: %v", operationID, err)
		}
		h, err := o.node.Publish(ctx, content, meta, opts)
		if err != nil {
			var rejected *ledger.NodeRejectedError
			if errors.As(err, &rejected) {
				return poller.Permanent(err)
			}
			return err
		}
		handle = h
		return nil
	}, o.cfg.MaxAttempts, o.retryDelay)
	if err != nil {
		return nil, err
	}

	return o.node.AwaitConfirmation(ctx, handle.ID, o.cfg.ConfirmTimeout)
}

func (o *Orchestrator) finishCompleted(ctx context.Context, entityType string, entityID uuid.UUID, operationID string, confirmation *ledger.Confirmation, log *zap.SugaredLogger) {
	envelope := model.PublishEnvelope{
		OperationID:   &operationID,
		PublishStatus: model.PublishStatusCompleted,
		UAL:           &confirmation.UAL,
		DatasetRoot:   &confirmation.DatasetRoot,
	}
	if err := o.advance(ctx, entityType, entityID, operationID, envelope); err != nil {
		log.Errorf("failed to mark publish completed: %v", err)
		return
	}
	metrics.IncreasePublishOperation(entityType, model.PublishStatusCompleted)
	log.Infof("published as %s", confirmation.UAL)
}

func (o *Orchestrator) finishFailed(ctx context.Context, entityType string, entityID uuid.UUID, operationID string, cause error, log *zap.SugaredLogger) {
	message := cause.Error()
	if poller.IsTimeout(cause) {
		message = fmt.Sprintf("publish not confirmed within %s; the asset may still land on the ledger", o.cfg.ConfirmTimeout)
	}

	envelope := model.PublishEnvelope{
		OperationID:   &operationID,
		PublishStatus: model.PublishStatusFailed,
		PublishError:  &message,
	}
	if err := o.advance(ctx, entityType, entityID, operationID, envelope); err != nil {
		log.Errorf("failed to mark publish failed: %v", err)
		return
	}
	metrics.IncreasePublishOperation(entityType, model.PublishStatusFailed)
	log.Warnf("publish failed: %s", message)
}

func (o *Orchestrator) analyzeProject(ctx context.Context, project model.Project) (*analysis.Record, error) {
	hash := analysis.ContentHash(project.RepoURL, project.RepoPushedAt)

	var repoMetrics analysis.RepoMetrics
	if project.Metrics != nil {
		repoMetrics = project.Metrics.Data
	}

	record, err := o.cache.GetOrCompute(ctx, hash, func(ctx context.Context) (analysis.Record, error) {
		result := analysis.Score(repoMetrics)
		return analysis.Record{
			Narrative: analysis.Narrative(project.Name, repoMetrics, result),
			Score:     result.Total,
			Breakdown: result.Breakdown,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	if err := o.store.Project().UpdateAnalysisHash(ctx, project.ID, hash); err != nil {
		return nil, err
	}
	return record, nil
}

func (o *Orchestrator) updateEntityPublishState(ctx context.Context, entityType string, entityID uuid.UUID, envelope model.PublishEnvelope) error {
	switch entityType {
	case model.EntityTypeProfile:
		return o.store.Profile().UpdatePublishState(ctx, entityID, envelope)
	case model.EntityTypeProject:
		return o.store.Project().UpdatePublishState(ctx, entityID, envelope)
	case model.EntityTypeEndorsement:
		return o.store.Endorsement().UpdatePublishState(ctx, entityID, envelope)
	default:
		return fmt.Errorf("unknown entity type %q", entityType)
	}
}

func newOperationID() string {
	return "op-" + uuid.NewString()
}
