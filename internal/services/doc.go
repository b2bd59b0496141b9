// Package services orchestrates the import and dashboard use cases on top of
// the dataprocessing pipeline, the analytics aggregator and the session
// store. Services translate between transport-level requests and the domain,
// and enforce the atomic-commit rule: a dataset becomes visible only after
// the whole pipeline has succeeded.
package services
