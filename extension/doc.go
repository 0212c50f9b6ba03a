// Package extension provides run-time registries that allow procio to work
// with user-defined worker programs and their Go config types.
//
// The registries are normally populated through the public APIs under the
// root procio package, therefore most applications do not need to import
// this package directly.
package extension
