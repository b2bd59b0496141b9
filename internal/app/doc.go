// Package app assembles the KYC dashboard service: configuration, logging,
// the persistent session store, the analytics services, and the chi router
// with its middleware chain. The cmd/web entrypoint stays a thin wrapper
// around Application.
package app
