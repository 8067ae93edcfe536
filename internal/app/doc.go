// Package app wires the dashboard service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//  1. Resolve settings (config package) and build the logger
//  2. Initialize OpenTelemetry and the business metrics
//  3. Open the run history store when a history path is configured
//  4. Create the services and the HTTP router
//
// The command line reuses the same Application for one-shot commands and
// for the long running server:
//
//	a, err := app.New(settings, logger)
//	if err != nil {
//	    return err
//	}
//	defer a.Close(ctx)
//	return a.Serve(ctx)
//
// # Graceful Shutdown
//
// Serve returns once ctx is cancelled and in-flight requests have finished,
// bounded by the configured shutdown timeout. The main function owns signal
// handling and the process exit code; this package never calls os.Exit.
package app
