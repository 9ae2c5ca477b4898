package tests

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/assignkun/assignkun/core/ingest"
)

func Test_csvApi_upload(t *testing.T) {
	app := setup(t)

	t.Run("valid upload replaces table", func(t *testing.T) {
		req, rec := newFileRequest(t, "/csv/users", "members.csv", []byte("user_code,name\nU001,Taro\nU002,Hanako\n"))
		app.server.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{
				"message":           "ユーザーデータが正常にアップロードされました",
				"type":              "users",
				"filename":          "members.csv",
				"records_processed": 2,
				"updated_by":        "システム",
			}),
		}, rec)

		rows, err := app.repo.QueryUsers(context.Background())
		if err != nil {
			t.Fatalf("QueryUsers() failed: %v", err)
		}
		if len(rows) != 2 {
			t.Errorf("table has %d rows; want 2", len(rows))
		}
	})

	t.Run("non-CSV extension", func(t *testing.T) {
		req, rec := newFileRequest(t, "/csv/users", "members.txt", []byte("user_code,name\nU001,Taro\n"))
		app.server.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnsupportedMediaType,
			wantData: marchallObj(t, httpErr{Error: "only CSV files can be uploaded"}),
		}, rec)
	})

	t.Run("invalid row reports row number", func(t *testing.T) {
		req, rec := newFileRequest(t, "/csv/users", "members.csv", []byte("user_code,name\nU001,Taro\n,NoCode\n"))
		app.server.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnprocessableEntity,
			wantData: marchallObj(t, httpErr{Error: "row 2: invalid record"}),
		}, rec)
	})

	t.Run("oversized payload", func(t *testing.T) {
		req, rec := newFileRequest(t, "/csv/users", "big.csv", bytes.Repeat([]byte("a"), ingest.MaxCSVSize+1))
		app.server.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusRequestEntityTooLarge,
			wantData: marchallObj(t, httpErr{Error: "file exceeds the 10MB size limit"}),
		}, rec)
	})

	t.Run("empty data", func(t *testing.T) {
		req, rec := newFileRequest(t, "/csv/users", "empty.csv", []byte("user_code,name\n"))
		app.server.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnprocessableEntity,
			wantData: marchallObj(t, httpErr{Error: "CSV file contains no data rows"}),
		}, rec)
	})

	t.Run("unknown dataset", func(t *testing.T) {
		req, rec := newFileRequest(t, "/csv/widgets", "members.csv", []byte("user_code,name\nU001,Taro\n"))
		app.server.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "unknown dataset"}),
		}, rec)
	})

	t.Run("missing file part", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/csv/users")
		app.server.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "file is required"}),
		}, rec)
	})
}
