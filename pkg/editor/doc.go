/*
Package editor applies editing operations to a single design.

An Editor wraps a *domain.Design and is the only writer of its shape tree while it
is in use. It delegates z-order and grouping to package shapetree, validates
free-form shape properties through package schema and reports every operation
through domain.LifecycleHooks.

An Editor is not safe for concurrent use. Callers that share designs across
goroutines or replicas go through session.Manager, which serializes access per
design id.
*/
package editor
