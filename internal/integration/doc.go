// Package integration runs the catalog API against a real PostgreSQL started
// with testcontainers. Run with: go test -tags integration ./internal/integration/...
package integration
