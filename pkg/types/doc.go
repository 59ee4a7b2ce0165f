// Package types defines the entities of the evaluation matrix (locations,
// criteria, evaluations), the read shapes built from them, the storage
// contract every backend implements, and the error taxonomy shared by the
// store, the core and the transports.
//
// The package has no dependencies on storage engines. Backends live under
// internal/ and the business rules live in pkg/matrix.
package types
