// Package dispatcher routes a validated CommandMap to its handler by
// (category, action), and runs the dispatcher-level structural validation
// that decides between the two entry modes described in spec §4.4.
package dispatcher

import (
	"context"

	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/command"
)

// Handler is the subset of command.Handlers the dispatcher routes to. Named
// separately so tests can supply a fake without building a full Handlers.
type Handler interface {
	CreateAccount(ctx context.Context, cm *command.CommandMap) (*command.Command, error)
	UpdateAccount(ctx context.Context, cm *command.CommandMap) (*command.Command, error)
	CreateTransaction(ctx context.Context, cm *command.CommandMap) (*command.Command, error)
	UpdateTransaction(ctx context.Context, cm *command.CommandMap) (*command.Command, error)
}

// Dispatcher routes CommandMaps to handlers.
type Dispatcher struct {
	Handlers Handler
}

// New constructs a Dispatcher bound to handlers.
func New(handlers Handler) *Dispatcher {
	return &Dispatcher{Handlers: handlers}
}

// Dispatch implements spec §4.4's two entry modes. A CommandMap that fails
// structural validation is rejected in no-save-on-error mode: nothing is
// persisted. A structurally valid CommandMap is routed to its handler, which
// persists the Command before running (save-on-error mode) regardless of
// whether the handler's business effect ultimately succeeds.
func (d *Dispatcher) Dispatch(ctx context.Context, cm *command.CommandMap) (*command.Command, error) {
	if err := validate(cm); err != nil {
		return nil, err
	}

	category, _ := cm.Category()

	switch category {
	case command.CategoryAccount:
		switch cm.Action {
		case command.ActionCreateAccount:
			return d.Handlers.CreateAccount(ctx, cm)
		case command.ActionUpdateAccount:
			return d.Handlers.UpdateAccount(ctx, cm)
		}
	case command.CategoryTransaction:
		switch cm.Action {
		case command.ActionCreateTransaction:
			return d.Handlers.CreateTransaction(ctx, cm)
		case command.ActionUpdateTransaction:
			return d.Handlers.UpdateTransaction(ctx, cm)
		}
	}

	return nil, apperr.ValidateBusinessError(apperr.ErrActionNotSupported, "CommandMap", string(cm.Action))
}
