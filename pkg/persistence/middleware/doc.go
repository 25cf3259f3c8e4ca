// Package middleware wraps a ports.KeyValueStore with extra behavior, such as
// encrypting persisted credentials at rest.
package middleware
