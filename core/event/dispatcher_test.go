package event

import (
	"context"
	"testing"

	"github.com/pkg/errors"
)

type syncScheduler struct{}

func (syncScheduler) Schedule(_ string, job func(ctx context.Context)) {
	job(context.Background())
}

type recordingProcessor struct {
	data []interface{}
}

func (p *recordingProcessor) ProcessEvent(_ context.Context, data interface{}) {
	p.data = append(p.data, data)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func newTestDispatcher() (*Dispatcher, *recordingProcessor) {
	proc := &recordingProcessor{}
	d := NewDispatcher(NewBuffer(DefaultBufferCapacity), syncScheduler{}, proc, nopLogger{})
	return d, proc
}

func TestDispatcher_Receive(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantCount     int
		wantProcessed int
	}{
		{
			name:      "single object",
			body:      `{"id":"1","eventType":"other.event","subject":"s"}`,
			wantCount: 1,
		},
		{
			name:      "array of objects",
			body:      `[{"id":"1","eventType":"a"},{"id":"2","eventType":"b"}]`,
			wantCount: 2,
		},
		{
			name:          "csv upload event schedules processing",
			body:          `{"id":"1","eventType":"csvfile.uploaded","subject":"csv/users/x.csv","data":{"blobName":"x.csv","dataType":"users"}}`,
			wantCount:     1,
			wantProcessed: 1,
		},
		{
			name:          "mixed array processes only csv events",
			body:          `[{"eventType":"csvfile.uploaded","data":{}},{"eventType":"noise"}]`,
			wantCount:     2,
			wantProcessed: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, proc := newTestDispatcher()

			n, err := d.Receive([]byte(tt.body))
			if err != nil {
				t.Fatalf("Receive() failed: %v", err)
			}
			if n != tt.wantCount {
				t.Errorf("Receive() = %d; want %d", n, tt.wantCount)
			}
			if evs, cnt := d.Events(); cnt != tt.wantCount || len(evs) != tt.wantCount {
				t.Errorf("Events() count = %d; want %d", cnt, tt.wantCount)
			}
			if len(proc.data) != tt.wantProcessed {
				t.Errorf("processed = %d; want %d", len(proc.data), tt.wantProcessed)
			}
		})
	}
}

func TestDispatcher_Receive_invalidJSON(t *testing.T) {
	d, _ := newTestDispatcher()

	for _, body := range []string{"not json", "{", "[{]"} {
		if _, err := d.Receive([]byte(body)); errors.Cause(err) != ErrBadPayload {
			t.Errorf("Receive(%q) error = %v; want ErrBadPayload", body, err)
		}
	}
}

func TestDispatcher_Receive_stampsReceivedAt(t *testing.T) {
	d, _ := newTestDispatcher()

	if _, err := d.Receive([]byte(`{"id":"1","eventType":"x"}`)); err != nil {
		t.Fatalf("Receive() failed: %v", err)
	}
	evs, _ := d.Events()
	if evs[0].ReceivedAt == "" {
		t.Error("ReceivedAt not stamped")
	}
}
