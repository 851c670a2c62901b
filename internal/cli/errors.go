package cli

import (
	"errors"

	"github.com/roach88/apiquery/internal/definition"
	"github.com/roach88/apiquery/internal/queryir"
	"github.com/roach88/apiquery/internal/store"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeScanError    = "E002" // Directory scan error
	ErrCodeNoFiles      = "E003" // No definition or scenario files found
	ErrCodeLoadFailed   = "E004" // Definition or scenario load failed
	ErrCodeNotFound     = "E005" // Path or catalog entry not found
	ErrCodeRenderFailed = "E006" // Render failed for another reason
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeStoreFailed  = "E008" // Catalog database error
	ErrCodeBadFlag      = "E009" // Malformed flag value

	// Builder errors
	ErrCodePrecondition    = "E101" // URL requested before For(model)
	ErrCodeInvalidArgument = "E102" // Builder call received an unusable value

	ErrCodeTestFailed = "E_TEST_FAILED"
)

// MapErrorToCode returns the CLI error code for err.
func MapErrorToCode(err error) string {
	var loadErr *definition.LoadError
	switch {
	case queryir.IsPreconditionError(err):
		return ErrCodePrecondition
	case queryir.IsInvalidArgument(err):
		return ErrCodeInvalidArgument
	case errors.Is(err, store.ErrNotFound):
		return ErrCodeNotFound
	case errors.As(err, &loadErr):
		return ErrCodeLoadFailed
	default:
		return ErrCodeGeneric
	}
}

// lineOf returns the source line of a load error, or 0.
func lineOf(err error) int {
	var loadErr *definition.LoadError
	if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
		return loadErr.Pos.Line()
	}
	return 0
}
