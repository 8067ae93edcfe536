// Package insights defines how trends, anomalies and recommendations are
// derived from a processed dataset. Only a placeholder generator is provided;
// it returns empty insights.
package insights
