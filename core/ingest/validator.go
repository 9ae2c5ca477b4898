package ingest

import (
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core"
)

// Validator coerces raw CSV records into typed dataset rows. The first
// invalid row rejects the whole batch with its 1-indexed row number.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator(validate *validator.Validate, translator ut.Translator) *Validator {
	return &Validator{validate: validate, translator: translator}
}

// ValidateRows maps records to the dataset's typed schema, in row order.
// Columns the schema does not declare are dropped (e.g. computed totals on
// assign uploads).
func (v *Validator) ValidateRows(dataset Dataset, records []Record) (Batch, error) {
	batch := Batch{Dataset: dataset}
	for i, rec := range records {
		rowNum := i + 1 // 1-indexed, header excluded
		rdr := fieldReader{rec: rec}

		var row interface{}
		switch dataset {
		case DatasetHistograms:
			h := Histogram{
				ACCode:       rdr.str("histogram_ac_code"),
				ACName:       rdr.str("histogram_ac_name"),
				PJBrNum:      rdr.str("histogram_pj_br_num"),
				PJName:       rdr.str("histogram_pj_name"),
				ContractForm: rdr.str("histogram_pj_contract_form"),
				CostsUnit:    rdr.int("histogram_costs_unit"),
				Year:         rdr.int("histogram_year"),
				Month01:      rdr.float("histogram_01month"),
				Month02:      rdr.float("histogram_02month"),
				Month03:      rdr.float("histogram_03month"),
				Month04:      rdr.float("histogram_04month"),
				Month05:      rdr.float("histogram_05month"),
				Month06:      rdr.float("histogram_06month"),
				Month07:      rdr.float("histogram_07month"),
				Month08:      rdr.float("histogram_08month"),
				Month09:      rdr.float("histogram_09month"),
				Month10:      rdr.float("histogram_10month"),
				Month11:      rdr.float("histogram_11month"),
				Month12:      rdr.float("histogram_12month"),
			}
			row = h
			batch.Histograms = append(batch.Histograms, h)
		case DatasetProjects:
			p := Project{
				BrNum:          rdr.str("project_br_num"),
				Name:           rdr.str("name"),
				ContractForm:   rdr.str("project_contract_form"),
				SchedSelf:      rdr.str("project_sched_self"),
				SchedTo:        rdr.str("project_sched_to"),
				TypeName:       rdr.str("project_type_name"),
				Classification: rdr.str("project_classification"),
				BudgetNo:       rdr.str("project_budget_no"),
			}
			row = p
			batch.Projects = append(batch.Projects, p)
		case DatasetUsers:
			u := User{
				UserCode: rdr.str("user_code"),
				Name:     rdr.str("name"),
				UserTeam: rdr.str("user_team"),
				UserType: rdr.str("user_type"),
			}
			row = u
			batch.Users = append(batch.Users, u)
		case DatasetAssigns:
			a := Assign{
				UserName:      rdr.str("user_name"),
				Execution:     rdr.float("assin_execution"),
				Maintenance:   rdr.float("assin_maintenance"),
				Prospect:      rdr.float("assin_prospect"),
				CommonCost:    rdr.float("assin_common_cost"),
				MostComPS:     rdr.float("assin_most_com_ps"),
				SalesMane:     rdr.float("assin_sales_mane"),
				Investigation: rdr.float("assin_investigation"),
				ProjectCode:   rdr.int("assin_project_code"),
				Directly:      rdr.float("assin_directly"),
				Common:        rdr.float("assin_common"),
				SalesSup:      rdr.float("assin_sales_sup"),
			}
			row = a
			batch.Assigns = append(batch.Assigns, a)
		default:
			return Batch{}, errors.Wrap(ErrUnknownDataset, string(dataset))
		}

		if err := v.validate.Struct(row); err != nil {
			if vErrs, ok := err.(validator.ValidationErrors); ok {
				for _, vErr := range vErrs {
					rdr.errs = append(rdr.errs, core.FieldError{
						Field: vErr.Field(),
						Error: vErr.Translate(v.translator),
					})
				}
			} else {
				return Batch{}, errors.Wrap(err, "validating row")
			}
		}
		if len(rdr.errs) > 0 {
			return Batch{}, core.NewRowValidationError(rowNum, errors.New("invalid record"), rdr.errs...)
		}
	}
	return batch, nil
}

// fieldReader coerces record fields and collects per-field errors.
type fieldReader struct {
	rec  Record
	errs []core.FieldError
}

func (r *fieldReader) str(field string) string {
	return core.CleanString(r.rec[field])
}

func (r *fieldReader) float(field string) float64 {
	val := core.CleanString(r.rec[field])
	if val == "" {
		return 0
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		r.errs = append(r.errs, core.FieldError{Field: field, Error: "a numeric value is required"})
		return 0
	}
	return f
}

func (r *fieldReader) int(field string) int {
	val := core.CleanString(r.rec[field])
	if val == "" {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		r.errs = append(r.errs, core.FieldError{Field: field, Error: "an integer value is required"})
		return 0
	}
	return n
}
