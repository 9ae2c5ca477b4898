package assignkun

import "github.com/assignkun/assignkun/core/ingest"

// Notice is one notification row shown on the dashboard.
type Notice struct {
	ID          int    `db:"id" json:"id"`
	NoticeTime  string `db:"notice_time" json:"notice_time"`
	UserName    string `db:"user_name" json:"user_name"`
	NoticeText  string `db:"notice_text" json:"notice_text"`
	ProjectName string `db:"project_name" json:"project_name,omitempty"`
	NoticeType  string `db:"notice_type" json:"notice_type"`
}

type (
	// AssignProjectEntry is the per-row breakdown kept for each summarized user.
	AssignProjectEntry struct {
		ProjectCode int     `json:"assin_project_code"`
		Execution   float64 `json:"assin_execution"`
		Directly    float64 `json:"assin_directly"`
	}

	// AssignSummary aggregates all assignment rows of one user.
	AssignSummary struct {
		UserName           string               `json:"user_name"`
		ExecutionTotal     float64              `json:"assin_execution_total"`
		MaintenanceTotal   float64              `json:"assin_maintenance_total"`
		ProspectTotal      float64              `json:"assin_prospect_total"`
		CommonCostTotal    float64              `json:"assin_common_cost_total"`
		MostComPSTotal     float64              `json:"assin_most_com_ps_total"`
		SalesManeTotal     float64              `json:"assin_sales_mane_total"`
		InvestigationTotal float64              `json:"assin_investigation_total"`
		DirectlyTotal      float64              `json:"assin_directly_total"`
		CommonTotal        float64              `json:"assin_common_total"`
		SalesSupTotal      float64              `json:"assin_sales_sup_total"`
		Projects           []AssignProjectEntry `json:"projects"`
	}

	// AssignSummaryList is the aggregation endpoint response.
	AssignSummaryList struct {
		Assigns    []AssignSummary `json:"assigns"`
		TotalUsers int             `json:"total_users"`
	}

	// ProjectList is a page of project rows.
	ProjectList struct {
		Projects   []ingest.Project `json:"projects"`
		TotalCount int              `json:"total_count"`
		Page       int              `json:"page"`
		PerPage    int              `json:"per_page"`
	}

	// UserList is a page of user rows.
	UserList struct {
		Users      []ingest.User `json:"users"`
		TotalCount int           `json:"total_count"`
		Page       int           `json:"page"`
		PerPage    int           `json:"per_page"`
	}

	// NoticeList is a page of notice rows.
	NoticeList struct {
		Notices    []Notice `json:"notices"`
		TotalCount int      `json:"total_count"`
		Page       int      `json:"page"`
		PerPage    int      `json:"per_page"`
	}
)
