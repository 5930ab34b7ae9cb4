package shares

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameters        = errors.New("invalid parameters")
	ErrInvalidRecordOwnership   = errors.New("records not owned by caller")
	ErrTokenGenerationExhausted = errors.New("token generation exhausted")
	ErrNotFound                 = errors.New("not found")
	ErrForbidden                = errors.New("forbidden")
	ErrAccessDenied             = errors.New("access denied")
	ErrExportNotPermitted       = errors.New("export not permitted for this share")

	// Errores que devuelven los stores.
	ErrTokenTaken      = errors.New("token already taken")
	ErrConditionFailed = errors.New("conditional update rejected")
)

// DenialError lleva el motivo exacto; hacia el médico solo se expone ErrAccessDenied.
type DenialError struct {
	Reason Outcome
}

func (e *DenialError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}

func (e *DenialError) Is(target error) bool {
	return target == ErrAccessDenied
}

// DenialReason extrae el motivo si err es una denegación.
func DenialReason(err error) (Outcome, bool) {
	var de *DenialError
	if errors.As(err, &de) {
		return de.Reason, true
	}
	return "", false
}
