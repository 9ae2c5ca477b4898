package upload

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Processing statuses recorded in blob metadata.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Blob metadata keys.
const (
	metaDataType            = "data_type"
	metaOriginalFilename    = "original_filename"
	metaUploadTimestamp     = "upload_timestamp"
	metaFileSize            = "file_size"
	metaProcessingStatus    = "processing_status"
	metaProcessedRecords    = "processed_records"
	metaErrorMessage        = "error_message"
	metaProcessingStartTime = "processing_start_time"
	metaProcessingEndTime   = "processing_end_time"
)

var (
	ErrUnsupportedMedia = errors.New("only CSV files can be uploaded")
	ErrMalformedEvent   = errors.New("blobName or dataType missing from event data")
)

type (
	// BlobInfo describes an uploaded CSV blob.
	BlobInfo struct {
		BlobName      string            `json:"blob_name"`
		ContainerName string            `json:"container_name"`
		BlobURL       string            `json:"blob_url"`
		FileSize      int64             `json:"file_size"`
		Metadata      map[string]string `json:"metadata"`
	}

	// EventData is the payload of a csvfile.uploaded envelope.
	EventData struct {
		BlobName         string            `json:"blobName"`
		ContainerName    string            `json:"containerName"`
		BlobURL          string            `json:"blobUrl"`
		DataType         string            `json:"dataType"`
		FileSize         int64             `json:"fileSize"`
		Metadata         map[string]string `json:"metadata,omitempty"`
		ProcessingStatus string            `json:"processingStatus,omitempty"`
	}

	// Result is the terminal outcome of one processing job. It is returned,
	// never raised: the job has no caller waiting on an error.
	Result struct {
		Success          bool   `json:"success"`
		BlobName         string `json:"blob_name"`
		DataType         string `json:"data_type"`
		RecordsProcessed int    `json:"records_processed,omitempty"`
		ErrorMessage     string `json:"error_message,omitempty"`
		Message          string `json:"message"`
	}

	// Status is the metadata snapshot served by the status endpoint.
	Status struct {
		BlobName         string `json:"blob_name"`
		ProcessingStatus string `json:"processing_status"`
		DataType         string `json:"data_type"`
		UploadTimestamp  string `json:"upload_timestamp,omitempty"`
		OriginalFilename string `json:"original_filename,omitempty"`
		FileSize         string `json:"file_size,omitempty"`
		ProcessedRecords string `json:"processed_records"`
		ErrorMessage     string `json:"error_message,omitempty"`
	}
)

// ParseEventData converts a decoded JSON value (the envelope's data field)
// into EventData.
func ParseEventData(v interface{}) (EventData, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return EventData{}, errors.Wrap(err, "encoding event data")
	}
	var data EventData
	if err = json.Unmarshal(raw, &data); err != nil {
		return EventData{}, errors.Wrap(err, "decoding event data")
	}
	return data, nil
}
