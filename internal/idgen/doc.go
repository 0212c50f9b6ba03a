// Package idgen wraps the UUID generator behind a stubbable function so
// tests can pin message and handle identifiers. It lives under `internal`
// because callers should treat identifiers as opaque strings.
package idgen
