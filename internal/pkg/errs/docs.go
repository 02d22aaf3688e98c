// Package errs provides the typed errors shared by the dispatch domain, its
// use cases and its adapters.
//
// Every error type follows the same shape:
//   - a sentinel (ErrObjectNotFound, ErrValueIsInvalid, ...) for errors.Is checks
//   - a struct carrying the offending parameter and an optional cause
//   - New...Error and New...ErrorWithCause constructors
//   - Unwrap returning the sentinel
//
// Repositories return *ObjectNotFoundError when a row is missing; value objects
// return *ValueIsRequiredError, *ValueIsInvalidError or *ValueIsOutOfRangeError
// from their constructors, usually combined with errors.Join.
package errs
