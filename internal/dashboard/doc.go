// Package dashboard is the entry point that turns data sources into a
// dashboard URL.
//
// A Dashboard is built once from validated Options and runs the same linear
// pipeline on every Generate call: expand source patterns, process the data,
// generate insights, publish the dashboard. Nothing is retried; the first
// failure is logged and returned to the caller unchanged.
//
//	d, err := dashboard.New(dashboard.Options{
//	    Region:      settings.AWS.Region,
//	    DataSources: []string{"data/*.csv"},
//	    Settings:    settings,
//	}, dashboard.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	url, err := d.Generate(ctx)
//
// Insight generation and publishing are placeholders behind the
// insights.Generator and Publisher interfaces.
package dashboard
