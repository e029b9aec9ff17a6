// Package gameerr defines the engine's error taxonomy. Every rejected state
// transition names the violated invariant; callers branch on the code.
package gameerr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error class.
type Code string

const (
	// CodeNotFound: an entity id did not resolve.
	CodeNotFound Code = "NOT_FOUND"
	// CodeConflict: the operation collides with existing state, e.g. a second
	// active training for the same dweller.
	CodeConflict Code = "CONFLICT"
	// CodeNoChange: idempotent guard no-ops, e.g. pausing a paused vault.
	CodeNoChange Code = "NO_CHANGE"
	// CodeVaultOp: a vault-level rule blocked the operation, e.g. not enough
	// caps, population cap reached.
	CodeVaultOp Code = "VAULT_OPERATION"
	// CodeValidation: malformed input.
	CodeValidation Code = "VALIDATION"
)

// Error carries a code and a human-readable reason.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error   { return newf(CodeNotFound, format, args...) }
func Conflictf(format string, args ...any) *Error   { return newf(CodeConflict, format, args...) }
func NoChangef(format string, args ...any) *Error   { return newf(CodeNoChange, format, args...) }
func VaultOpf(format string, args ...any) *Error    { return newf(CodeVaultOp, format, args...) }
func Validationf(format string, args ...any) *Error { return newf(CodeValidation, format, args...) }

func is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func IsNotFound(err error) bool   { return is(err, CodeNotFound) }
func IsConflict(err error) bool   { return is(err, CodeConflict) }
func IsNoChange(err error) bool   { return is(err, CodeNoChange) }
func IsVaultOp(err error) bool    { return is(err, CodeVaultOp) }
func IsValidation(err error) bool { return is(err, CodeValidation) }

// CodeOf extracts the code from any error; errors outside the taxonomy
// report an empty code.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
