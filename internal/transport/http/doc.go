// Package http implements the HTTP API of the dashboard service. Handlers
// are thin: they decode and validate the request, call a service and render
// the response.
//
// # Routes
//
//	GET  /api/health       liveness and version
//	GET  /api/version      build information
//	GET  /api/settings     resolved settings, secrets masked
//	POST /api/process      load and clean sources, return a column summary
//	POST /api/dashboards   run the dashboard pipeline
//	GET  /api/dashboards   list past runs, newest first (?limit=1..500)
//	GET  /api/dashboards/{runID}  one past run
//	GET  /metrics          Prometheus scrape endpoint
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/data/source",
//	    "title": "Invalid Data Source",
//	    "status": 400,
//	    "detail": "data source not found: sales.csv",
//	    "instance": "/api/dashboards",
//	    "trace_id": "..."
//	}
//
// # Middleware
//
// NewRouter installs, in order: RequestID, RealIP, OpenTelemetry
// instrumentation, structured request logging, panic recovery and security
// headers. The data endpoints are rate limited per client.
package http
