// Package responsehandler maps a command handler's error back onto the
// input-shaped CommandMap the caller submitted (spec §4.8). One Handle
// function covers both categories; the field-path convention it applies
// (TransactionData's embedded entries vs AccountData's flat payload) is the
// only thing that differs between them, so a single implementation replaces
// what would otherwise be two near-identical dedicated ResponseHandlers.
package responsehandler

import (
	"errors"

	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/command"
	"github.com/ledgerd/coreengine/internal/services/txstep"
)

// FieldError attaches one validation failure to a field path on the
// originally submitted CommandMap.
type FieldError struct {
	Field   string
	Code    string
	Title   string
	Message string
}

// Result is the input-shaped validation result spec §4.8 describes: the
// CommandMap the caller submitted, annotated with field errors instead of a
// bare internal error.
type Result struct {
	CommandMap *command.CommandMap
	Errors     []FieldError
}

// Handle maps err, as produced by a command.Handlers method or rejected by
// the dispatcher before persistence, back onto cm's input shape. A nil err
// yields a Result with no Errors.
func Handle(cm *command.CommandMap, err error) *Result {
	result := &Result{CommandMap: cm}

	if err == nil {
		return result
	}

	if errors.Is(err, apperr.ErrIdempotencyViolation) {
		result.Errors = append(result.Errors, idempotencyFieldError(cm))
		return result
	}

	var stepErr *txstep.Error

	step := ""
	cause := err

	if errors.As(err, &stepErr) {
		step = stepErr.Step
		cause = stepErr.Err
	}

	category, _ := cm.Category()

	result.Errors = append(result.Errors, FieldError{
		Field:   fieldFor(category, step),
		Code:    codeOf(cause),
		Title:   titleOf(cause),
		Message: cause.Error(),
	})

	return result
}

// idempotencyFieldError implements spec §4.8's literal idempotency-violation
// messages: a create collides on source_idempk, an update on update_idempk.
func idempotencyFieldError(cm *command.CommandMap) FieldError {
	if command.IsUpdate(cm.Action) {
		return FieldError{
			Field:   "update_idempk",
			Code:    "0001",
			Title:   "IdempotencyViolation",
			Message: "already exists for this source_idempk",
		}
	}

	return FieldError{
		Field:   "source_idempk",
		Code:    "0001",
		Title:   "IdempotencyViolation",
		Message: "already exists for this instance",
	}
}

// fieldFor attributes an error to the CommandMap region a human would look
// at first: the embedded payload for transaction/account-specific steps, the
// top-level envelope for the command-level steps. An error with no step name
// is placed by category alone, so a step-less :create_command_not_found on a
// transaction command lands on payload.entries, not the top level (spec §4.8).
func fieldFor(category command.Category, step string) string {
	switch step {
	case "transaction", "account_balances", "pending_lookup_link":
		return "payload.entries"
	case "account":
		return "payload"
	case "journal_event", "mark_processed", "new_command", "idempotency":
		return ""
	}

	switch category {
	case command.CategoryTransaction:
		return "payload.entries"
	case command.CategoryAccount:
		return "payload"
	default:
		return ""
	}
}

func codeOf(err error) string {
	switch e := any(err).(type) {
	case apperr.EntityNotFoundError:
		return e.Code
	case apperr.EntityConflictError:
		return e.Code
	case apperr.ValidationError:
		return e.Code
	case apperr.UnprocessableOperationError:
		return e.Code
	case apperr.FailedPreconditionError:
		return e.Code
	case apperr.InternalServerError:
		return e.Code
	default:
		return "0000"
	}
}

func titleOf(err error) string {
	switch e := any(err).(type) {
	case apperr.EntityNotFoundError:
		return e.Title
	case apperr.EntityConflictError:
		return e.Title
	case apperr.ValidationError:
		return e.Title
	case apperr.UnprocessableOperationError:
		return e.Title
	case apperr.FailedPreconditionError:
		return e.Title
	case apperr.InternalServerError:
		return e.Title
	default:
		return "InternalServerError"
	}
}
