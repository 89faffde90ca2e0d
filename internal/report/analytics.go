package report

// Customization selects the optional analytics surfaces the caller wants
// rendered alongside the core summary/trends/performance set.
type Customization struct {
	SelectedCardMetrics []string `json:"selectedCardMetrics"`
	ChartMetrics        []string `json:"chartMetrics"`
	ChartType           string   `json:"chartType"`
}

// Analytics is the stable shape consumed by the presentation layer.
type Analytics struct {
	Summary     Summary              `json:"summary"`
	Trends      Trends               `json:"trends"`
	Performance Performance          `json:"performance"`
	Cards       map[string]CardValue `json:"cards,omitempty"`
	Chart       *Chart               `json:"chart,omitempty"`
}

// BuildAnalytics runs the full analyzer set over one fetched row set. The
// sub-analyses are independent and each re-reads the input, so rows must not
// be mutated between them. An empty row set is an input-shape failure.
func BuildAnalytics(rows []Row, custom *Customization) (*Analytics, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	analytics := &Analytics{
		Summary:     Summarize(rows),
		Trends:      AnalyzeTrends(rows),
		Performance: AnalyzePerformance(rows),
	}
	if custom != nil {
		analytics.Cards = CardMetrics(rows, custom.SelectedCardMetrics)
		analytics.Chart = ChartData(rows, custom.ChartMetrics, custom.ChartType)
	}
	return analytics, nil
}
