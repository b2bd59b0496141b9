// Package http implements the HTTP surface of the KYC dashboard service.
// Handlers stay thin: they parse and validate requests, call the service
// layer, and render JSON (or file downloads for exports). All business logic
// lives in the services, analytics and dataprocessing packages.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service
//	                                             ↓
//	HTTP Response ← render.JSON / download ←────┘
//
// Errors reach clients as structured JSON envelopes; pipeline failures keep
// their specifics (for example the list of missing header columns) so the
// UI can tell the user exactly what to fix.
package http
