// Package services holds the application services behind the HTTP API and
// the command line. Handlers stay thin: they decode a request, call a service
// and render the result.
//
// DashboardService builds a fresh dashboard.Dashboard for every request from
// one settings snapshot, so concurrent requests share nothing mutable. When a
// run store is configured, every generation run is recorded and can be listed
// through History.
//
// HealthService reports liveness and build information.
package services
