package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core/ingest"
	"github.com/assignkun/assignkun/core/upload"
)

type csvBlobApi struct {
	svc *upload.Service
}

func registerCSVBlobAPI(e *echo.Echo, svc *upload.Service) {
	api := csvBlobApi{svc: svc}

	g := e.Group("/csv-blob")
	g.POST("/:dataset/upload", api.upload)
	// blob names contain slashes; wildcard instead of a path param
	g.GET("/status/*", api.status)
}

// upload stores the CSV in blob storage and returns immediately; processing
// happens when the storage event comes back through the webhook.
func (api *csvBlobApi) upload(ctx echo.Context) error {
	dataset, err := ingest.ParseDataset(ctx.Param("dataset"))
	if err != nil {
		return err
	}

	filename, content, err := readFormFile(ctx)
	if err != nil {
		return err
	}

	info, err := api.svc.Submit(ctx.Request().Context(), content, filename, dataset)
	if err != nil {
		return errors.Wrapf(err, "submitting %s upload", dataset)
	}

	return ctx.JSON(http.StatusOK, CSVUploadResponse{
		Message:          datasetLabels[dataset] + "CSVファイルがアップロードされ、処理待ちです",
		Type:             string(dataset),
		Filename:         filename,
		RecordsProcessed: 0, // not processed yet
		UpdatedBy:        systemUser,
		BlobName:         info.BlobName,
		ProcessingStatus: upload.StatusPending,
	})
}

func (api *csvBlobApi) status(ctx echo.Context) error {
	blobName := ctx.Param("*")

	st, err := api.svc.Status(ctx.Request().Context(), blobName)
	if err != nil {
		return errors.Wrap(err, "reading processing status")
	}
	return ctx.JSON(http.StatusOK, st)
}
