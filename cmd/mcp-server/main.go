package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/openmartech/adreport/internal/config"
	"github.com/openmartech/adreport/internal/observability"
	"github.com/openmartech/adreport/internal/report"
	"github.com/openmartech/adreport/internal/warehouse"
	"go.uber.org/zap"
)

type ReportSummaryInput struct {
	Platform    string   `json:"platform"`
	Team        string   `json:"team,omitempty"`
	AccountIDs  []string `json:"account_ids,omitempty"`
	CampaignIDs []string `json:"campaign_ids,omitempty"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Metrics     []string `json:"metrics,omitempty"`
}

type ReportSummaryOutput struct {
	Summary  report.Summary `json:"summary"`
	RowCount int            `json:"row_count"`
}

type EvidenciaTableInput struct {
	Platform       string   `json:"platform"`
	Team           string   `json:"team,omitempty"`
	AccountIDs     []string `json:"account_ids,omitempty"`
	CampaignIDs    []string `json:"campaign_ids,omitempty"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	GroupBy        string   `json:"group_by,omitempty"`
	SelectedFields []string `json:"selected_fields,omitempty"`
	SortBy         string   `json:"sort_by,omitempty"`
	SortOrder      string   `json:"sort_order,omitempty"`
	MaxRows        int      `json:"max_rows,omitempty"`
}

type EvidenciaTableOutput struct {
	Rows []report.Row `json:"rows"`
}

type ListCampaignsInput struct {
	Platform   string   `json:"platform"`
	AccountIDs []string `json:"account_ids"`
	StartDate  string   `json:"start_date,omitempty"`
	EndDate    string   `json:"end_date,omitempty"`
	Team       string   `json:"team,omitempty"`
}

type ListCampaignsOutput struct {
	Campaigns []warehouse.Campaign `json:"campaigns"`
}

// ReportServer holds the MCP tool dependencies.
type ReportServer struct {
	wh     *warehouse.Warehouse
	logger *zap.Logger
}

// GenerateReportSummary fetches daily campaign rows for the requested range
// and rolls them up into portfolio-level totals and derived ratios.
func (s *ReportServer) GenerateReportSummary(ctx context.Context, req *mcp.CallToolRequest, input ReportSummaryInput) (*mcp.CallToolResult, ReportSummaryOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	q := warehouse.ReportQuery{
		Platform:    input.Platform,
		Team:        input.Team,
		AccountIDs:  input.AccountIDs,
		CampaignIDs: input.CampaignIDs,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Metrics:     input.Metrics,
	}

	rows, err := s.wh.FetchRawRows(ctx, q)
	if err != nil {
		return nil, ReportSummaryOutput{}, fmt.Errorf("fetch report rows: %w", err)
	}

	s.logger.Info("Generated report summary",
		zap.String("platform", input.Platform),
		zap.Int("rows", len(rows)))

	return nil, ReportSummaryOutput{
		Summary:  report.Summarize(report.CalculateDerived(rows)),
		RowCount: len(rows),
	}, nil
}

// GetEvidenciaTable produces the aggregated, sorted, field-projected table
// used for campaign evidence exports.
func (s *ReportServer) GetEvidenciaTable(ctx context.Context, req *mcp.CallToolRequest, input EvidenciaTableInput) (*mcp.CallToolResult, EvidenciaTableOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	q := warehouse.ReportQuery{
		Platform:    input.Platform,
		Team:        input.Team,
		AccountIDs:  input.AccountIDs,
		CampaignIDs: input.CampaignIDs,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}

	rawRows, err := s.wh.FetchRawRows(ctx, q)
	if err != nil {
		return nil, EvidenciaTableOutput{}, fmt.Errorf("fetch raw rows: %w", err)
	}

	cfg := report.EvidenciaConfig{
		GroupBy:        input.GroupBy,
		SelectedFields: input.SelectedFields,
		SortBy:         input.SortBy,
		SortOrder:      input.SortOrder,
		MaxRows:        input.MaxRows,
	}

	rows := report.PrepareEvidencia(rawRows, cfg)

	s.logger.Info("Built evidencia table",
		zap.String("platform", input.Platform),
		zap.Int("raw_rows", len(rawRows)),
		zap.Int("rows", len(rows)))

	return nil, EvidenciaTableOutput{Rows: rows}, nil
}

// ListCampaigns exposes the campaign picker used by the report wizard.
func (s *ReportServer) ListCampaigns(ctx context.Context, req *mcp.CallToolRequest, input ListCampaignsInput) (*mcp.CallToolResult, ListCampaignsOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	campaigns, err := s.wh.ListCampaigns(ctx, input.Platform, input.AccountIDs, input.StartDate, input.EndDate, input.Team)
	if err != nil {
		return nil, ListCampaignsOutput{}, fmt.Errorf("list campaigns: %w", err)
	}

	return nil, ListCampaignsOutput{Campaigns: campaigns}, nil
}

func main() {
	// Use stderr to avoid stdio conflicts with the MCP transport
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	// Use same encoder config as observability package for consistency
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.LevelKey = "level"
	zcfg.EncoderConfig.NameKey = "logger"
	zcfg.EncoderConfig.CallerKey = "caller"
	zcfg.EncoderConfig.MessageKey = "msg"
	zcfg.EncoderConfig.StacktraceKey = "stacktrace"

	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger = logger.Named("adreport-mcp").With(zap.String("service", "adreport-mcp"))

	logger.Info("Starting AdReport MCP Server")

	cfg := config.Load()

	wh, err := warehouse.Init(cfg.ClickHouseDSN, cfg.CHMaxOpenConns, cfg.CHMaxIdleConns, cfg.CHConnMaxLifetime, cfg.CHConnMaxIdleTime, observability.NewNoOpRegistry())
	if err != nil {
		logger.Fatal("Failed to connect to ClickHouse", zap.Error(err))
	}
	defer wh.Close()
	logger.Info("Connected to ClickHouse")

	reportServer := &ReportServer{
		wh:     wh,
		logger: logger,
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "adreport",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_report_summary",
		Description: "Generate portfolio-level totals and derived ratios for a marketing platform over a date range",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"platform": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"facebook", "google", "tiktok"},
					"description": "Marketing platform to report on",
				},
				"team": map[string]interface{}{
					"type":        "string",
					"description": "Team name to filter by (optional)",
				},
				"account_ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Account IDs to filter by (optional)",
				},
				"campaign_ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Campaign IDs to filter by (optional)",
				},
				"start_date": map[string]interface{}{
					"type":        "string",
					"format":      "date",
					"description": "Range start, YYYY-MM-DD",
				},
				"end_date": map[string]interface{}{
					"type":        "string",
					"format":      "date",
					"description": "Range end, YYYY-MM-DD",
				},
				"metrics": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Metrics to aggregate (optional, defaults to the additive set)",
				},
			},
			"required": []string{"platform", "start_date", "end_date"},
		},
	}, reportServer.GenerateReportSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_evidencia_table",
		Description: "Build the aggregated, sorted evidencia table for campaign evidence exports",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"platform": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"facebook", "google", "tiktok"},
					"description": "Marketing platform to report on",
				},
				"team": map[string]interface{}{
					"type":        "string",
					"description": "Team name to filter by (optional)",
				},
				"account_ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Account IDs to filter by (optional)",
				},
				"campaign_ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Campaign IDs to filter by (optional)",
				},
				"start_date": map[string]interface{}{
					"type":        "string",
					"format":      "date",
					"description": "Range start, YYYY-MM-DD",
				},
				"end_date": map[string]interface{}{
					"type":        "string",
					"format":      "date",
					"description": "Range end, YYYY-MM-DD",
				},
				"group_by": map[string]interface{}{
					"type":        "string",
					"description": "Grouping field (optional, defaults to campaign_name)",
				},
				"selected_fields": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Fields to project into the table (optional)",
				},
				"sort_by": map[string]interface{}{
					"type":        "string",
					"description": "Field to sort by (optional, defaults to cost)",
				},
				"sort_order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort direction (optional, defaults to desc)",
				},
				"max_rows": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum rows to return (optional)",
				},
			},
			"required": []string{"platform", "start_date", "end_date"},
		},
	}, reportServer.GetEvidenciaTable)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_campaigns",
		Description: "List campaigns for a platform and set of accounts, with spend and status",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"platform": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"facebook", "google", "tiktok"},
					"description": "Marketing platform",
				},
				"account_ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Account IDs to list campaigns for",
				},
				"start_date": map[string]interface{}{
					"type":        "string",
					"format":      "date",
					"description": "Window start, YYYY-MM-DD (optional, defaults to the last 90 days)",
				},
				"end_date": map[string]interface{}{
					"type":        "string",
					"format":      "date",
					"description": "Window end, YYYY-MM-DD (optional)",
				},
				"team": map[string]interface{}{
					"type":        "string",
					"description": "Team name to filter by (optional)",
				},
			},
			"required": []string{"platform", "account_ids"},
		},
	}, reportServer.ListCampaigns)

	stdioTransport := &mcp.StdioTransport{}

	var logBuffer bytes.Buffer
	loggingTransport := &mcp.LoggingTransport{
		Transport: stdioTransport,
		Writer:    &logBuffer,
	}

	logger.Info("MCP Server running via stdio")

	if err := server.Run(context.Background(), loggingTransport); err != nil {
		logger.Fatal("Server error", zap.Error(err), zap.String("mcp_logs", logBuffer.String()))
	}
}
