package generator

import (
	"errors"
	"fmt"
	"go/token"
)

// Severity of a diagnostic.
type Severity int

const (
	// SeverityInfo is used for inputs that are skipped on purpose, such as control messages.
	// Info diagnostics never make synthesis fail.
	SeverityInfo Severity = iota
	// SeverityWarning is used for inputs that are likely authoring mistakes.
	// Warnings make synthesis fail in strict mode.
	SeverityWarning
	// SeverityError is used for inputs that can't be synthesized.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Code identifies the kind of a diagnostic.
type Code string

const (
	CodeMissingSuffix     Code = "missing-suffix"
	CodeNotSealed         Code = "not-sealed"
	CodeNoNamedFields     Code = "no-named-fields"
	CodeNoReplyField      Code = "no-reply-field"
	CodeAlreadyRewritten  Code = "already-rewritten"
	CodeEmptyRequestTable Code = "empty-request-table"
	CodeOrphanMessageSet  Code = "orphan-message-set"
	CodeStateNotStruct    Code = "state-not-struct"
	CodeUnknownMessageSet Code = "unknown-message-set"
	CodeDuplicatePairing  Code = "duplicate-pairing"
	CodeNameCollision     Code = "name-collision"
	CodeMissingHandler    Code = "missing-handler"
	CodeInvalidMethodName Code = "invalid-method-name"
)

// Diagnostic is a structured report about a declaration that was skipped or rejected.
type Diagnostic struct {
	Pos      token.Position
	Severity Severity
	Code     Code
	Message  string
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s [%s]", d.Pos, d.Severity, d.Message, d.Code)
}

// Diagnostics is a list of diagnostics, in the order they were reported.
type Diagnostics []Diagnostic

// Filter returns the diagnostics with at least the given severity.
func (d Diagnostics) Filter(min Severity) Diagnostics {
	var res Diagnostics
	for _, diag := range d {
		if diag.Severity >= min {
			res = append(res, diag)
		}
	}
	return res
}

// ByCode returns the diagnostics with the given code.
func (d Diagnostics) ByCode(code Code) Diagnostics {
	var res Diagnostics
	for _, diag := range d {
		if diag.Code == code {
			res = append(res, diag)
		}
	}
	return res
}

// Err returns an error wrapping ErrSynthesisFailed and every failing diagnostic, or nil if none is failing.
// Errors are always failing; warnings are failing only in strict mode.
func (d Diagnostics) Err(strict bool) error {
	min := SeverityError
	if strict {
		min = SeverityWarning
	}

	failing := d.Filter(min)
	if len(failing) == 0 {
		return nil
	}

	errs := make([]error, 0, len(failing)+1)
	errs = append(errs, ErrSynthesisFailed)
	for _, diag := range failing {
		errs = append(errs, diag)
	}
	return errors.Join(errs...)
}

type reporter struct {
	fset  *token.FileSet
	diags Diagnostics
}

func (r *reporter) report(pos token.Pos, severity Severity, code Code, format string, args ...any) {
	r.diags = append(r.diags, Diagnostic{
		Pos:      r.fset.Position(pos),
		Severity: severity,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}
