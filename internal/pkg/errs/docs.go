// Package errs provides the standardized error types used across the
// marketplace settlement service.
//
// Each error kind follows the same pattern:
//   - a sentinel error variable (e.g. ErrObjectNotFound) for errors.Is checks
//   - a struct type carrying the error details
//   - constructor functions, with and without an underlying cause
//   - Error() for formatting and Unwrap() for classification
//
// The HTTP adapter maps these kinds onto response codes (not found to 404,
// forbidden to 403, invalid or required values to 400) while anything
// unclassified surfaces as a generic internal error without leaking detail.
package errs
