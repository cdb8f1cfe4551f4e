// Package command models the durable request record (Command), its
// processing sidecar (CommandQueueItem) and lifecycle state machine, and the
// CommandMap boundary contract external callers submit.
//
// Per the design notes (spec §9), the source's macro-generated, payload-type-
// parameterized CommandMap is reimplemented here as one concrete struct with
// a tagged payload union, dispatched on (Category, Action) by a plain switch.
package command

import (
	"regexp"
)

// Category groups actions by the entity they operate on.
type Category string

const (
	CategoryAccount     Category = "account"
	CategoryTransaction Category = "transaction"
)

// Action is the external verb a CommandMap requests.
type Action string

const (
	ActionCreateAccount     Action = "create_account"
	ActionUpdateAccount     Action = "update_account"
	ActionCreateTransaction Action = "create_transaction"
	ActionUpdateTransaction Action = "update_transaction"
)

// CategoryOf returns the Category an Action belongs to, and false for any
// action outside the four recognized by the dispatcher (spec §4.4).
func CategoryOf(a Action) (Category, bool) {
	switch a {
	case ActionCreateAccount, ActionUpdateAccount:
		return CategoryAccount, true
	case ActionCreateTransaction, ActionUpdateTransaction:
		return CategoryTransaction, true
	default:
		return "", false
	}
}

// IsUpdate reports whether a is one of the update_* actions, which require
// update_idempk on the CommandMap (spec §6).
func IsUpdate(a Action) bool {
	return a == ActionUpdateAccount || a == ActionUpdateTransaction
}

var (
	// SourcePattern validates CommandMap.Source (spec §6).
	SourcePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,29}$`)
	// SourceIdempkPattern validates CommandMap.SourceIdempk and UpdateIdempk (spec §6).
	SourceIdempkPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]{0,127}$`)
)

// AccountData is the validated account payload of a CommandMap. The
// `validate` tags are consumed by services/dispatcher's validator.v9
// instance, not by anything in this package.
type AccountData struct {
	Name        string `validate:"required"`
	Address     string `validate:"required,acctaddress"`
	Type        string `validate:"required"`
	Currency    string `validate:"required"`
	Description string
}

// EntryData mirrors transaction.EntryData; redeclared here (not imported) to
// keep the command package, which every other package depends on, free of a
// dependency on the transaction package. Converted at the handler boundary.
type EntryData struct {
	AccountAddress string `validate:"required,acctaddress"`
	Amount         int64  `validate:"required"`
	Currency       string `validate:"required"`
}

// TransactionData is the validated transaction payload of a CommandMap.
// Entries may be empty (a status-only update), so it carries no `required`
// tag of its own; each present entry is dived into and validated.
type TransactionData struct {
	Status  string
	Entries []EntryData `validate:"dive"`
}

// CommandMap is the external boundary contract: every create_* / update_*
// request arrives shaped like this (spec §6). Field-level `validate` tags
// cover the checks expressible per-field; the update_idempk-required-on-
// update and payload-required-by-category rules are cross-field and are
// enforced by a registered struct-level validation instead (see
// services/dispatcher's validator wiring).
type CommandMap struct {
	Action          Action `validate:"required,oneof=create_account update_account create_transaction update_transaction"`
	InstanceAddress string `validate:"required"`
	Source          string `validate:"required,cmdsource"`
	SourceIdempk    string `validate:"required,cmdidempk"`
	UpdateIdempk    string `validate:"omitempty,cmdidempk"`
	UpdateSource    string

	AccountPayload     *AccountData
	TransactionPayload *TransactionData
}

// Category returns the CommandMap's category, derived from its Action.
func (c *CommandMap) Category() (Category, bool) {
	return CategoryOf(c.Action)
}
