package dispatcher

import (
	"fmt"
	"sync"

	"gopkg.in/go-playground/validator.v9"

	en2 "github.com/go-playground/validator/translations/en"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"

	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/account"
	"github.com/ledgerd/coreengine/internal/domain/command"
)

var (
	validatorOnce sync.Once
	cmdValidator  *validator.Validate
)

// newValidator builds the validator.v9 instance used to enforce the
// CommandMap boundary contract (spec §6): the source/source_idempk/
// update_idempk/address patterns as custom field-level tags, and the
// update_idempk-required-on-update / payload-required-by-category rules as a
// struct-level validation, the way common/net/http/withBody.go builds its own
// validator.New() with custom tags and translations.
func newValidator() *validator.Validate {
	v := validator.New()

	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	if err := en2.RegisterDefaultTranslations(v, trans); err != nil {
		panic(fmt.Errorf("dispatcher: register default validator translations: %w", err))
	}

	mustRegister(v, "cmdsource", func(fl validator.FieldLevel) bool {
		return command.SourcePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "cmdidempk", func(fl validator.FieldLevel) bool {
		return command.SourceIdempkPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "acctaddress", func(fl validator.FieldLevel) bool {
		return account.AddressPattern.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(validateCommandMapStruct, command.CommandMap{})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Errorf("dispatcher: register validator tag %q: %w", tag, err))
	}
}

// validateCommandMapStruct reports the two rules that depend on more than one
// field at once: update actions must carry a well-formed update_idempk, and
// the payload present must match the action's category.
func validateCommandMapStruct(sl validator.StructLevel) {
	cm := sl.Current().Interface().(command.CommandMap)

	if command.IsUpdate(cm.Action) && !command.SourceIdempkPattern.MatchString(cm.UpdateIdempk) {
		sl.ReportError(cm.UpdateIdempk, "UpdateIdempk", "UpdateIdempk", "cmdidempk", "")
	}

	category, ok := cm.Category()
	if !ok {
		return
	}

	switch category {
	case command.CategoryAccount:
		if cm.AccountPayload == nil {
			sl.ReportError(cm.AccountPayload, "AccountPayload", "AccountPayload", "required_payload", "")
		}
	case command.CategoryTransaction:
		if cm.TransactionPayload == nil {
			sl.ReportError(cm.TransactionPayload, "TransactionPayload", "TransactionPayload", "required_payload", "")
		}
	}
}

// validate enforces the structural shape of a CommandMap (spec §6) ahead of
// any persistence: unknown action, missing instance_address, malformed
// source/source_idempk/update_idempk/address, or a payload missing/mismatched
// for the action's category. These never reach the store, so the
// no-save-on-error entry mode is simply "return before calling a handler".
func validate(cm *command.CommandMap) error {
	validatorOnce.Do(func() { cmdValidator = newValidator() })

	err := cmdValidator.Struct(*cm)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.ValidateBusinessError(apperr.ErrInvalidEntryData, "CommandMap", err.Error())
	}

	return mapValidationError(verrs)
}

// mapValidationError translates the first structurally-significant
// validator.v9 failure into the apperr this package returned before the
// validator was wired in, so callers and responsehandler.Handle keep seeing
// the same error taxonomy.
func mapValidationError(verrs validator.ValidationErrors) error {
	for _, fe := range verrs {
		if fe.StructField() == "Action" {
			return apperr.ValidateBusinessError(apperr.ErrActionNotSupported, "CommandMap", fmt.Sprint(fe.Value()))
		}

		if (fe.StructField() == "AccountPayload" || fe.StructField() == "TransactionPayload") && fe.Tag() == "required_payload" {
			return apperr.ValidateBusinessError(apperr.ErrNoAccountsOrEntries, "CommandMap")
		}
	}

	fe := verrs[0]

	return apperr.ValidateBusinessError(apperr.ErrInvalidEntryData, "CommandMap", fmt.Sprintf("%s is invalid (rule %q)", fe.Namespace(), fe.Tag()))
}
