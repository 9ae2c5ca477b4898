// Package eventgridsvc publishes events to an Azure Event Grid custom topic
// over plain HTTP.
package eventgridsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core"
	"github.com/assignkun/assignkun/core/event"
)

const accessKeyHeader = "aeg-sas-key"

type Publisher struct {
	client   *http.Client
	endpoint string
	key      string
	logger   core.Logger
}

var _ event.Publisher = (*Publisher)(nil) // interface compliance check

func NewPublisher(conf *core.Config, logger core.Logger) *Publisher {
	return &Publisher{
		client:   &http.Client{Timeout: conf.EventGrid.PublishTimeout},
		endpoint: conf.EventGrid.TopicEndpoint,
		key:      conf.EventGrid.AccessKey,
		logger:   logger,
	}
}

// Publish posts the events as a JSON array to the topic endpoint. When no
// endpoint or key is configured the events are dropped with a log line; local
// runs have no Event Grid to talk to.
func (p *Publisher) Publish(ctx context.Context, events ...event.Envelope) error {
	if len(events) == 0 {
		return nil
	}
	if p.endpoint == "" || p.key == "" {
		p.logger.Info("event grid not configured; dropping events", len(events))
		return nil
	}

	body, err := json.Marshal(events)
	if err != nil {
		return errors.Wrap(err, "encoding events")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building publish request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessKeyHeader, p.key)

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "posting events")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("publishing events: topic returned %s", resp.Status)
	}
	return nil
}
