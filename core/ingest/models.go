package ingest

import "github.com/pkg/errors"

// Dataset identifies one of the four CSV record kinds this backend accepts.
type Dataset string

const (
	DatasetHistograms Dataset = "histograms"
	DatasetProjects   Dataset = "projects"
	DatasetUsers      Dataset = "users"
	DatasetAssigns    Dataset = "assigns"
)

var ErrUnknownDataset = errors.New("unknown dataset")

// ParseDataset maps a request path segment to a Dataset.
func ParseDataset(s string) (Dataset, error) {
	switch Dataset(s) {
	case DatasetHistograms, DatasetProjects, DatasetUsers, DatasetAssigns:
		return Dataset(s), nil
	}
	return "", errors.Wrap(ErrUnknownDataset, s)
}

// Histogram is one yearly cost row per account/project pair.
type Histogram struct {
	ID           int     `db:"id" json:"id"`
	ACCode       string  `db:"histogram_ac_code" json:"histogram_ac_code" validate:"required"`
	ACName       string  `db:"histogram_ac_name" json:"histogram_ac_name" validate:"required"`
	PJBrNum      string  `db:"histogram_pj_br_num" json:"histogram_pj_br_num" validate:"required"`
	PJName       string  `db:"histogram_pj_name" json:"histogram_pj_name" validate:"required"`
	ContractForm string  `db:"histogram_pj_contract_form" json:"histogram_pj_contract_form"`
	CostsUnit    int     `db:"histogram_costs_unit" json:"histogram_costs_unit"`
	Year         int     `db:"histogram_year" json:"histogram_year"`
	Month01      float64 `db:"histogram_01month" json:"histogram_01month"`
	Month02      float64 `db:"histogram_02month" json:"histogram_02month"`
	Month03      float64 `db:"histogram_03month" json:"histogram_03month"`
	Month04      float64 `db:"histogram_04month" json:"histogram_04month"`
	Month05      float64 `db:"histogram_05month" json:"histogram_05month"`
	Month06      float64 `db:"histogram_06month" json:"histogram_06month"`
	Month07      float64 `db:"histogram_07month" json:"histogram_07month"`
	Month08      float64 `db:"histogram_08month" json:"histogram_08month"`
	Month09      float64 `db:"histogram_09month" json:"histogram_09month"`
	Month10      float64 `db:"histogram_10month" json:"histogram_10month"`
	Month11      float64 `db:"histogram_11month" json:"histogram_11month"`
	Month12      float64 `db:"histogram_12month" json:"histogram_12month"`
}

// Project is one project master row.
type Project struct {
	ID             int    `db:"id" json:"id"`
	BrNum          string `db:"project_br_num" json:"project_br_num" validate:"required"`
	Name           string `db:"name" json:"name" validate:"required"`
	ContractForm   string `db:"project_contract_form" json:"project_contract_form"`
	SchedSelf      string `db:"project_sched_self" json:"project_sched_self"`
	SchedTo        string `db:"project_sched_to" json:"project_sched_to"`
	TypeName       string `db:"project_type_name" json:"project_type_name"`
	Classification string `db:"project_classification" json:"project_classification"`
	BudgetNo       string `db:"project_budget_no" json:"project_budget_no"`
}

// User is one member master row. These are data rows, not login principals.
type User struct {
	ID       int    `db:"id" json:"id"`
	UserCode string `db:"user_code" json:"user_code" validate:"required"`
	Name     string `db:"name" json:"name" validate:"required"`
	UserTeam string `db:"user_team" json:"user_team"`
	UserType string `db:"user_type" json:"user_type"`
}

// Assign is one per-user/per-project assignment row. Only these columns are
// persisted; any extra CSV columns (computed totals etc.) are dropped during
// validation.
type Assign struct {
	ID            int     `db:"id" json:"id"`
	UserName      string  `db:"user_name" json:"user_name" validate:"required"`
	Execution     float64 `db:"assin_execution" json:"assin_execution"`
	Maintenance   float64 `db:"assin_maintenance" json:"assin_maintenance"`
	Prospect      float64 `db:"assin_prospect" json:"assin_prospect"`
	CommonCost    float64 `db:"assin_common_cost" json:"assin_common_cost"`
	MostComPS     float64 `db:"assin_most_com_ps" json:"assin_most_com_ps"`
	SalesMane     float64 `db:"assin_sales_mane" json:"assin_sales_mane"`
	Investigation float64 `db:"assin_investigation" json:"assin_investigation"`
	ProjectCode   int     `db:"assin_project_code" json:"assin_project_code"`
	Directly      float64 `db:"assin_directly" json:"assin_directly"`
	Common        float64 `db:"assin_common" json:"assin_common"`
	SalesSup      float64 `db:"assin_sales_sup" json:"assin_sales_sup"`
}

// Batch is one validated upload for a single dataset; exactly one slice is
// populated, matching Dataset.
type Batch struct {
	Dataset    Dataset
	Histograms []Histogram
	Projects   []Project
	Users      []User
	Assigns    []Assign
}

// Len reports the number of rows in the batch.
func (b Batch) Len() int {
	switch b.Dataset {
	case DatasetHistograms:
		return len(b.Histograms)
	case DatasetProjects:
		return len(b.Projects)
	case DatasetUsers:
		return len(b.Users)
	case DatasetAssigns:
		return len(b.Assigns)
	}
	return 0
}
