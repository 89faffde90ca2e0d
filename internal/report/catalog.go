package report

// MetricDef describes one selectable metric: how it is displayed, which
// category it belongs to, and, for calculated metrics, the formula it is
// derived from.
type MetricDef struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Format     string   `json:"format"`
	Calculated bool     `json:"calculated,omitempty"`
	Formula    string   `json:"formula,omitempty"`
	Platforms  []string `json:"available,omitempty"`
}

// MetricCategory groups catalog metrics for the selection UI.
type MetricCategory struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Icon    string      `json:"icon"`
	Metrics []MetricDef `json:"metrics"`
}

// Catalog is the metric catalog for one platform.
type Catalog struct {
	Platform       string           `json:"platform"`
	Categories     []MetricCategory `json:"categories"`
	TotalMetrics   int              `json:"totalMetrics"`
	DefaultMetrics []string         `json:"defaultMetrics"`
}

var allPlatforms = []string{"facebook", "google", "tiktok"}

var universalMetrics = []MetricDef{
	{ID: "cost", Name: "Costo", Category: "spend", Format: "currency", Platforms: allPlatforms},
	{ID: "impressions", Name: "Impresiones", Category: "reach", Format: "number", Platforms: allPlatforms},
	{ID: "clicks", Name: "Clics", Category: "engagement", Format: "number", Platforms: allPlatforms},
	{ID: "ctr", Name: "CTR", Category: "engagement", Format: "percentage", Calculated: true, Formula: "clicks/impressions*100", Platforms: allPlatforms},
	{ID: "cpm", Name: "CPM", Category: "efficiency", Format: "currency", Calculated: true, Formula: "cost/impressions*1000", Platforms: allPlatforms},
	{ID: "cpc", Name: "CPC", Category: "efficiency", Format: "currency", Calculated: true, Formula: "cost/clicks", Platforms: allPlatforms},
}

var platformMetrics = map[string][]MetricDef{
	"facebook": {
		{ID: "reach", Name: "Alcance", Category: "reach", Format: "number"},
		{ID: "frequency", Name: "Frecuencia", Category: "reach", Format: "decimal"},
		{ID: "video_views", Name: "Reproducciones de Video", Category: "video", Format: "number"},
		{ID: "video_views_25", Name: "Video 25%", Category: "video", Format: "number"},
		{ID: "video_views_50", Name: "Video 50%", Category: "video", Format: "number"},
		{ID: "video_views_75", Name: "Video 75%", Category: "video", Format: "number"},
		{ID: "video_views_100", Name: "Video 100%", Category: "video", Format: "number"},
		{ID: "inline_link_clicks", Name: "Clics en Enlaces", Category: "engagement", Format: "number"},
		{ID: "inline_post_engagement", Name: "Interacción en Posts", Category: "engagement", Format: "number"},
		{ID: "purchases", Name: "Compras", Category: "conversions", Format: "number"},
		{ID: "revenue", Name: "Ingresos", Category: "conversions", Format: "currency"},
		{ID: "roas", Name: "ROAS", Category: "efficiency", Format: "decimal", Calculated: true, Formula: "revenue/cost"},
	},
	"google": {
		{ID: "conversions", Name: "Conversiones", Category: "conversions", Format: "number"},
		{ID: "conversions_value", Name: "Valor de Conversiones", Category: "conversions", Format: "currency"},
		{ID: "impression_share", Name: "Cuota de Impresiones", Category: "reach", Format: "percentage"},
		{ID: "is_lost_by_rank", Name: "Perdido por Ranking", Category: "reach", Format: "percentage"},
		{ID: "is_lost_by_budget", Name: "Perdido por Presupuesto", Category: "reach", Format: "percentage"},
		{ID: "is_top", Name: "Impresiones Superiores", Category: "reach", Format: "percentage"},
		{ID: "is_absolute_top", Name: "Impresiones Top Absoluto", Category: "reach", Format: "percentage"},
		{ID: "video_views", Name: "Vistas de Video", Category: "video", Format: "number"},
		{ID: "conversion_rate", Name: "Tasa de Conversión", Category: "conversions", Format: "percentage", Calculated: true, Formula: "conversions/clicks*100"},
		{ID: "cost_per_conversion", Name: "Costo por Conversión", Category: "efficiency", Format: "currency", Calculated: true, Formula: "cost/conversions"},
	},
	"tiktok": {
		{ID: "video_play_actions", Name: "Reproducciones de Video", Category: "video", Format: "number"},
		{ID: "video_watched_2_s", Name: "Videos vistos 2s", Category: "video", Format: "number"},
		{ID: "video_views_p_25", Name: "Video 25%", Category: "video", Format: "number"},
		{ID: "video_views_p_50", Name: "Video 50%", Category: "video", Format: "number"},
		{ID: "video_views_p_75", Name: "Video 75%", Category: "video", Format: "number"},
		{ID: "video_views_p_100", Name: "Video 100%", Category: "video", Format: "number"},
		{ID: "purchases", Name: "Compras", Category: "conversions", Format: "number"},
		{ID: "purchases_value", Name: "Valor de Compras", Category: "conversions", Format: "currency"},
	},
}

var catalogCategories = []MetricCategory{
	{ID: "spend", Name: "Gasto", Icon: "currency"},
	{ID: "reach", Name: "Alcance", Icon: "users"},
	{ID: "engagement", Name: "Interacción", Icon: "click"},
	{ID: "video", Name: "Video", Icon: "video"},
	{ID: "conversions", Name: "Conversiones", Icon: "chart"},
	{ID: "efficiency", Name: "Eficiencia", Icon: "trending"},
}

// DefaultMetrics is the preselected metric set for new reports.
var DefaultMetrics = []string{"cost", "impressions", "clicks", "ctr", "cpm"}

// MetricCatalog assembles the catalog for the given platform: the universal
// metrics available on it plus its platform-specific ones, grouped by
// category. Unknown platforms yield only the universal set.
func MetricCatalog(platform string) Catalog {
	metrics := make([]MetricDef, 0)
	for _, m := range universalMetrics {
		if contains(m.Platforms, platform) {
			metrics = append(metrics, m)
		}
	}
	metrics = append(metrics, platformMetrics[platform]...)

	categories := make([]MetricCategory, 0, len(catalogCategories))
	for _, cat := range catalogCategories {
		var inCat []MetricDef
		for _, m := range metrics {
			if m.Category == cat.ID {
				inCat = append(inCat, m)
			}
		}
		if len(inCat) == 0 {
			continue
		}
		cat.Metrics = inCat
		categories = append(categories, cat)
	}

	return Catalog{
		Platform:       platform,
		Categories:     categories,
		TotalMetrics:   len(metrics),
		DefaultMetrics: DefaultMetrics,
	}
}

// MetricDisplayName returns the human name of a metric; unknown metrics fall
// back to their identifier.
func MetricDisplayName(id string) string {
	for _, m := range universalMetrics {
		if m.ID == id {
			return m.Name
		}
	}
	for _, defs := range platformMetrics {
		for _, m := range defs {
			if m.ID == id {
				return m.Name
			}
		}
	}
	switch id {
	case "conversions":
		return "Conversiones"
	case "revenue":
		return "Ingresos"
	}
	return id
}
