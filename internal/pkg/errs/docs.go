// Package errs provides the error types shared by the fulfillment service.
//
// Each type follows the same shape: a sentinel error variable, a struct with
// the details, constructors with and without a cause, and an Unwrap method
// returning the sentinel so callers can match with errors.Is.
//
//   - ObjectNotFoundError: a referenced order, shipment, product, actor or warehouse is missing
//   - ValueIsRequiredError / ValueIsInvalidError / ValueIsOutOfRangeError: input validation
//   - VersionIsInvalidError: an optimistic version check failed on update
package errs
