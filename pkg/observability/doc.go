/*
Package observability provides tools for monitoring the editor and the exporters.

Both Prometheus metrics and structured logging are exposed as
domain.LifecycleHooks, so they can be combined with LifecycleHooks.Merge and
passed to the editor or the service facade.
*/
package observability
