// Package errors provides structured error types for the utf8-codec module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the byte offset of the offending input where one exists,
// an optional field path, the WIT type being lowered or lifted, and a cause chain.
//
// The core encoder and decoder never return errors: malformed input is absorbed
// as U+FFFD. Errors surface only from strict validation, linear-memory transport
// and configuration.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLift, errors.KindOverflow).
//		Path("greeting").
//		WitType("string").
//		Detail("string size %d exceeds maximum %d", n, max).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidUTF8(errors.PhaseValidate, offset, data)
//	err := errors.OutOfBounds(errors.PhaseMemory, offset, length)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
