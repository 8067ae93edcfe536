package domain

// Insights is the structured result of analysing a processed dataset
type Insights struct {
	Trends          []string `json:"trends"`
	Anomalies       []string `json:"anomalies"`
	Recommendations []string `json:"recommendations"`
}

// EmptyInsights returns insights with non-nil, empty lists so that they
// encode as [] rather than null.
func EmptyInsights() Insights {
	return Insights{
		Trends:          []string{},
		Anomalies:       []string{},
		Recommendations: []string{},
	}
}

// IsEmpty reports whether no finding of any kind is present
func (i Insights) IsEmpty() bool {
	return len(i.Trends) == 0 && len(i.Anomalies) == 0 && len(i.Recommendations) == 0
}
