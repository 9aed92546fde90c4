package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/logging"
	"github.com/dmitrijs2005/userhub/internal/models"
)

// AccountRemover is the remote side of a removal. Errors are expected to be
// mapped to common.ErrBadRequest or common.ErrUpstreamUnavailable already.
type AccountRemover interface {
	RemoveUser(ctx context.Context, id string) (*models.RemovalResult, error)
}

// RemovalPhase names the step a removal is in; it shows up in logs.
type RemovalPhase string

const (
	PhaseValidating RemovalPhase = "validating"
	PhaseDelegating RemovalPhase = "delegating"
	PhaseRelaying   RemovalPhase = "relaying"
	PhaseDone       RemovalPhase = "done"
	PhaseFailed     RemovalPhase = "failed"
)

// RemovalDelegate validates a removal locally and hands it to the account
// service. It never retries and never invents an outcome.
type RemovalDelegate struct {
	remote  AccountRemover
	timeout time.Duration
	logger  logging.Logger
}

func NewRemovalDelegate(remote AccountRemover, timeout time.Duration, l logging.Logger) *RemovalDelegate {
	return &RemovalDelegate{
		remote:  remote,
		timeout: timeout,
		logger:  l.With("module", "removal"),
	}
}

// Remove deletes the account named by rawID through the account service and
// returns its reply unchanged. An invalid id fails before any call is made.
func (d *RemovalDelegate) Remove(ctx context.Context, rawID string) (*models.RemovalResult, error) {
	phase := PhaseValidating
	id, err := models.ParseAccountID(rawID)
	if err != nil {
		d.logger.Debug(ctx, "Removal rejected", "phase", phase, "id", rawID)
		return nil, err
	}

	phase = PhaseDelegating
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	reply, err := d.remote.RemoveUser(callCtx, id.String())
	if err == nil && reply == nil {
		err = fmt.Errorf("%w: empty reply", common.ErrUpstreamUnavailable)
	}
	if err != nil {
		d.logger.Warn(ctx, "Removal failed", "phase", phase, "state", PhaseFailed, "id", id.String(), "error", err)
		return nil, err
	}

	phase = PhaseRelaying
	d.logger.Debug(ctx, "Relaying removal reply", "phase", phase, "id", id.String(), "found", reply.Account != nil)

	d.logger.Info(ctx, "Removal done", "state", PhaseDone, "id", id.String(), "message", reply.Message)
	return reply, nil
}
