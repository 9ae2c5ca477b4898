package event

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core"
)

// Dispatcher receives webhook notifications, buffers them for diagnostics and
// schedules processing of recognized CSV-upload events. It owns the buffer;
// handlers only see it through the dispatcher.
type Dispatcher struct {
	buffer    *Buffer
	scheduler core.Scheduler
	processor Processor
	logger    core.Logger
}

func NewDispatcher(buffer *Buffer, scheduler core.Scheduler, processor Processor, logger core.Logger) *Dispatcher {
	return &Dispatcher{
		buffer:    buffer,
		scheduler: scheduler,
		processor: processor,
		logger:    logger,
	}
}

// Receive parses body as a JSON envelope or array of envelopes, buffers each
// element and schedules processing jobs for csvfile.uploaded events. It
// returns the number of envelopes handled.
func (d *Dispatcher) Receive(body []byte) (int, error) {
	envelopes, err := decodeEnvelopes(body)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, ev := range envelopes {
		ev.ReceivedAt = now
		d.buffer.Append(ev)

		if ev.EventType == EventTypeCSVUploaded {
			d.logger.Info("CSV processing event received: " + ev.Subject)
			data := ev.Data
			d.scheduler.Schedule("process-csv", func(ctx context.Context) {
				d.processor.ProcessEvent(ctx, data)
			})
		}
	}
	return len(envelopes), nil
}

// Events returns the buffered envelopes, oldest first, with the buffer size.
func (d *Dispatcher) Events() ([]Envelope, int) {
	evs := d.buffer.Snapshot()
	return evs, len(evs)
}

// Clear empties the buffer and reports the removed count.
func (d *Dispatcher) Clear() int {
	return d.buffer.Clear()
}

// decodeEnvelopes accepts a single JSON object or an array of objects,
// wrapping the former in a one-element list.
func decodeEnvelopes(body []byte) ([]Envelope, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var envelopes []Envelope
		if err := json.Unmarshal(trimmed, &envelopes); err != nil {
			return nil, errors.Wrap(ErrBadPayload, err.Error())
		}
		return envelopes, nil
	}
	var ev Envelope
	if err := json.Unmarshal(trimmed, &ev); err != nil {
		return nil, errors.Wrap(ErrBadPayload, err.Error())
	}
	return []Envelope{ev}, nil
}
