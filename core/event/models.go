package event

import (
	"context"

	"github.com/pkg/errors"
)

// EventTypeCSVUploaded marks envelopes that trigger CSV processing.
const EventTypeCSVUploaded = "csvfile.uploaded"

// ErrBadPayload is returned when a webhook body is not valid JSON.
var ErrBadPayload = errors.New("invalid JSON format")

// Envelope is one inbound or outbound notification record.
type Envelope struct {
	ID          string      `json:"id"`
	EventType   string      `json:"eventType"`
	Subject     string      `json:"subject"`
	EventTime   string      `json:"eventTime"`
	Data        interface{} `json:"data,omitempty"`
	DataVersion string      `json:"dataVersion,omitempty"`
	ReceivedAt  string      `json:"receivedAt,omitempty"`
}

// Publisher delivers envelopes to an external eventing endpoint. Failures are
// reported to the caller, who decides whether they matter; the upload path
// logs and swallows them.
type Publisher interface {
	Publish(ctx context.Context, events ...Envelope) error
}

// Processor consumes the data payload of a recognized envelope.
type Processor interface {
	ProcessEvent(ctx context.Context, data interface{})
}
