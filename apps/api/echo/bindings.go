package echoapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core/ingest"
)

const systemUser = "システム"

// CSVUploadResponse is returned by both the synchronous and the blob upload
// endpoints.
type CSVUploadResponse struct {
	Message          string `json:"message"`
	Type             string `json:"type"`
	Filename         string `json:"filename"`
	RecordsProcessed int    `json:"records_processed"`
	UpdatedBy        string `json:"updated_by"`
	BlobName         string `json:"blob_name,omitempty"`
	ProcessingStatus string `json:"processing_status,omitempty"`
}

var datasetLabels = map[ingest.Dataset]string{
	ingest.DatasetHistograms: "ヒストグラム",
	ingest.DatasetProjects:   "プロジェクト",
	ingest.DatasetUsers:      "ユーザー",
	ingest.DatasetAssigns:    "アサイン",
}

// readFormFile pulls the "file" multipart part into memory. Reads one byte
// past the size cap so the parser can reject oversized payloads itself.
func readFormFile(ctx echo.Context) (string, []byte, error) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(io.LimitReader(f, ingest.MaxCSVSize+1))
	if err != nil {
		return "", nil, errors.Wrap(err, "reading uploaded file")
	}
	return fh.Filename, content, nil
}

func intQueryParam(ctx echo.Context, name string, dflt int) int {
	v := ctx.QueryParam(name)
	if v == "" {
		return dflt
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return dflt
	}
	return n
}
