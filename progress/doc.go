// Package progress defines primitives for reporting and aggregating the
// progress of tasks executed by a dispatcher worker pool.  It abstracts away
// the delivery mechanism so that callers can consume counter updates in a
// uniform way, whether they poll snapshots or register an onChange callback.
package progress
