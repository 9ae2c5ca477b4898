package ingest_test

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core"
	"github.com/assignkun/assignkun/core/ingest"
	"github.com/assignkun/assignkun/storage/database/inmem"
)

func newIngestService(repo ingest.Repository) *ingest.Service {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	return ingest.NewService(repo, ingest.NewValidator(validate, translator))
}

func TestService_Ingest_replacesTable(t *testing.T) {
	ctx := context.Background()
	repo := inmem.NewRepository()
	svc := newIngestService(repo)

	cnt, err := svc.Ingest(ctx, ingest.DatasetUsers, []byte("user_code,name\nU001,Taro\nU002,Hanako\n"))
	if err != nil {
		t.Fatalf("Ingest() failed: %v", err)
	}
	if cnt != 2 {
		t.Fatalf("Ingest() = %d; want 2", cnt)
	}

	// a second upload fully replaces the first
	cnt, err = svc.Ingest(ctx, ingest.DatasetUsers, []byte("user_code,name\nU003,Jiro\n"))
	if err != nil {
		t.Fatalf("Ingest() failed: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("Ingest() = %d; want 1", cnt)
	}

	rows, err := repo.QueryUsers(ctx)
	if err != nil {
		t.Fatalf("QueryUsers() failed: %v", err)
	}
	if len(rows) != 1 || rows[0].UserCode != "U003" {
		t.Errorf("table = %+v; want only U003", rows)
	}
}

func TestService_Ingest_invalidUploadLeavesTableUntouched(t *testing.T) {
	ctx := context.Background()
	repo := inmem.NewRepository()
	svc := newIngestService(repo)

	if _, err := svc.Ingest(ctx, ingest.DatasetUsers, []byte("user_code,name\nU001,Taro\n")); err != nil {
		t.Fatalf("Ingest() failed: %v", err)
	}

	_, err := svc.Ingest(ctx, ingest.DatasetUsers, []byte("user_code,name\n,NoCode\n"))
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		t.Fatalf("Ingest() error = %v; want ValidationError", err)
	}

	rows, err := repo.QueryUsers(ctx)
	if err != nil {
		t.Fatalf("QueryUsers() failed: %v", err)
	}
	if len(rows) != 1 || rows[0].UserCode != "U001" {
		t.Errorf("table = %+v; want U001 preserved", rows)
	}
}
