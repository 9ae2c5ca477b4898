package upload

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core"
	"github.com/assignkun/assignkun/core/event"
	"github.com/assignkun/assignkun/core/ingest"
)

// Service bridges CSV uploads into blob storage and eventing, and processes
// uploaded blobs when their events come back through the webhook.
type Service struct {
	blobs     core.BlobStore
	ingest    *ingest.Service
	publisher event.Publisher
	scheduler core.Scheduler
	logger    core.Logger
	container string
}

var _ event.Processor = (*Service)(nil)

func NewService(
	blobs core.BlobStore,
	ingestSvc *ingest.Service,
	publisher event.Publisher,
	scheduler core.Scheduler,
	logger core.Logger,
	container string,
) *Service {
	return &Service{
		blobs:     blobs,
		ingest:    ingestSvc,
		publisher: publisher,
		scheduler: scheduler,
		logger:    logger,
		container: container,
	}
}

// Submit stores a CSV upload in blob storage with pending metadata and
// schedules a best-effort csvfile.uploaded notification. Publish failures
// never reach the caller and never roll back the upload.
func (svc *Service) Submit(ctx context.Context, content []byte, filename string, dataset ingest.Dataset) (BlobInfo, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return BlobInfo{}, ErrUnsupportedMedia
	}

	now := time.Now().UTC()
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if base == "" {
		base = "unknown"
	}
	blobName := fmt.Sprintf(
		"%s/%s/%s_%s.csv",
		dataset, now.Format("20060102"), strings.ReplaceAll(uuid.NewString(), "-", ""), base,
	)

	metadata := map[string]string{
		metaDataType:         string(dataset),
		metaOriginalFilename: filename,
		metaUploadTimestamp:  now.Format(time.RFC3339),
		metaFileSize:         strconv.Itoa(len(content)),
		metaProcessingStatus: StatusPending,
	}

	obj, err := svc.blobs.Put(ctx, blobName, content, core.BlobPutOptions{
		ContentType: "text/csv",
		Metadata:    metadata,
	})
	if err != nil {
		return BlobInfo{}, errors.Wrap(err, "uploading blob")
	}
	svc.logger.Info("CSV uploaded to blob storage: " + blobName)

	info := BlobInfo{
		BlobName:      blobName,
		ContainerName: svc.container,
		BlobURL:       obj.URL,
		FileSize:      int64(len(content)),
		Metadata:      metadata,
	}

	// Publish after the response is sent; a lost event leaves the blob
	// pending until an operator replays it.
	svc.scheduler.Schedule("publish-csv-uploaded", func(ctx context.Context) {
		if err := svc.publishUploaded(ctx, info, dataset); err != nil {
			svc.logger.Error(fmt.Sprintf("publishing %s event for %s: %v", event.EventTypeCSVUploaded, blobName, err))
		}
	})

	return info, nil
}

func (svc *Service) publishUploaded(ctx context.Context, info BlobInfo, dataset ingest.Dataset) error {
	ev := event.Envelope{
		ID:        uuid.NewString(),
		EventType: event.EventTypeCSVUploaded,
		Subject:   fmt.Sprintf("csv/%s/%s", dataset, info.BlobName),
		EventTime: time.Now().UTC().Format(time.RFC3339),
		Data: EventData{
			BlobName:         info.BlobName,
			ContainerName:    info.ContainerName,
			BlobURL:          info.BlobURL,
			DataType:         string(dataset),
			FileSize:         info.FileSize,
			Metadata:         info.Metadata,
			ProcessingStatus: StatusPending,
		},
		DataVersion: "1.0",
	}
	return svc.publisher.Publish(ctx, ev)
}

// ProcessEvent adapts a raw envelope data payload to Process. It is the entry
// point used by the event dispatcher.
func (svc *Service) ProcessEvent(ctx context.Context, data interface{}) {
	eventData, err := ParseEventData(data)
	if err != nil {
		svc.logger.Error("decoding csvfile.uploaded event data: " + err.Error())
		return
	}
	res := svc.Process(ctx, eventData)
	if res.Success {
		svc.logger.Info(res.Message)
	} else {
		svc.logger.Error(res.Message)
	}
}

// Process downloads the blob named in the event, runs the ingest pipeline and
// writes a terminal status back to blob metadata. It never propagates errors;
// the Result is the whole story.
func (svc *Service) Process(ctx context.Context, data EventData) Result {
	if data.BlobName == "" || data.DataType == "" {
		return svc.fail(ctx, data, ErrMalformedEvent, false)
	}
	dataset, err := ingest.ParseDataset(data.DataType)
	if err != nil {
		return svc.fail(ctx, data, err, true)
	}

	if err = svc.setMetadata(ctx, data.BlobName, map[string]string{
		metaProcessingStatus:    StatusProcessing,
		metaProcessingStartTime: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return svc.fail(ctx, data, errors.Wrap(err, "marking blob as processing"), false)
	}

	_, content, err := svc.blobs.Get(ctx, data.BlobName)
	if err != nil {
		return svc.fail(ctx, data, errors.Wrap(err, "downloading blob"), true)
	}

	cnt, err := svc.ingest.Ingest(ctx, dataset, content)
	if err != nil {
		return svc.fail(ctx, data, err, true)
	}

	if err = svc.setMetadata(ctx, data.BlobName, map[string]string{
		metaProcessingStatus:  StatusCompleted,
		metaProcessedRecords:  strconv.Itoa(cnt),
		metaProcessingEndTime: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		svc.logger.Error("marking blob as completed: " + err.Error())
	}

	return Result{
		Success:          true,
		BlobName:         data.BlobName,
		DataType:         data.DataType,
		RecordsProcessed: cnt,
		Message:          fmt.Sprintf("%s data processed (%d records)", data.DataType, cnt),
	}
}

// fail records a terminal error status. The metadata write is best-effort:
// without a blob name, or if the write itself fails, the reason survives only
// in the logs.
func (svc *Service) fail(ctx context.Context, data EventData, cause error, writeMeta bool) Result {
	msg := cause.Error()
	if writeMeta && data.BlobName != "" {
		if err := svc.setMetadata(ctx, data.BlobName, map[string]string{
			metaProcessingStatus:  StatusError,
			metaErrorMessage:      msg,
			metaProcessingEndTime: time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			svc.logger.Error("marking blob as errored: " + err.Error())
		}
	}
	return Result{
		Success:      false,
		BlobName:     data.BlobName,
		DataType:     data.DataType,
		ErrorMessage: msg,
		Message:      "CSV processing failed: " + msg,
	}
}

func (svc *Service) setMetadata(ctx context.Context, blobName string, updates map[string]string) error {
	return svc.blobs.SetMetadata(ctx, blobName, updates)
}

// Status reads the processing metadata snapshot of an uploaded blob.
func (svc *Service) Status(ctx context.Context, blobName string) (Status, error) {
	obj, err := svc.blobs.Head(ctx, blobName)
	if err != nil {
		return Status{}, errors.Wrap(err, "reading blob metadata")
	}
	meta := obj.Metadata
	status := meta[metaProcessingStatus]
	if status == "" {
		status = "unknown"
	}
	dataType := meta[metaDataType]
	if dataType == "" {
		dataType = "unknown"
	}
	processed := meta[metaProcessedRecords]
	if processed == "" {
		processed = "0"
	}
	return Status{
		BlobName:         blobName,
		ProcessingStatus: status,
		DataType:         dataType,
		UploadTimestamp:  meta[metaUploadTimestamp],
		OriginalFilename: meta[metaOriginalFilename],
		FileSize:         meta[metaFileSize],
		ProcessedRecords: processed,
		ErrorMessage:     meta[metaErrorMessage],
	}, nil
}
