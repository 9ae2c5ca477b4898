package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core/ingest"
	"github.com/assignkun/assignkun/core/upload"
)

type csvApi struct {
	svc *ingest.Service
}

func registerCSVAPI(e *echo.Echo, svc *ingest.Service) {
	api := csvApi{svc: svc}

	e.POST("/csv/:dataset", api.upload)
}

// upload ingests a CSV file synchronously: parse, validate, replace the
// dataset's table, and report the inserted count.
func (api *csvApi) upload(ctx echo.Context) error {
	dataset, err := ingest.ParseDataset(ctx.Param("dataset"))
	if err != nil {
		return err
	}

	filename, content, err := readFormFile(ctx)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return upload.ErrUnsupportedMedia
	}

	cnt, err := api.svc.Ingest(ctx.Request().Context(), dataset, content)
	if err != nil {
		return errors.Wrapf(err, "ingesting %s", dataset)
	}

	return ctx.JSON(http.StatusOK, CSVUploadResponse{
		Message:          datasetLabels[dataset] + "データが正常にアップロードされました",
		Type:             string(dataset),
		Filename:         filename,
		RecordsProcessed: cnt,
		UpdatedBy:        systemUser,
	})
}
