package echoapi

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core/event"
)

type eventGridApi struct {
	dispatcher *event.Dispatcher
}

// registerEventGridAPI mounts the webhook endpoints on g. It is mounted twice:
// under /eventgrid and under the legacy /webhook prefix.
func registerEventGridAPI(g *echo.Group, dispatcher *event.Dispatcher) {
	api := eventGridApi{dispatcher: dispatcher}

	g.POST("/events", api.receive)
	g.GET("/events", api.list)
	g.DELETE("/events", api.clear)
}

func (api *eventGridApi) receive(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading webhook body")
	}

	n, err := api.dispatcher.Receive(body)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"status":           "success",
		"processed_events": n,
	})
}

func (api *eventGridApi) list(ctx echo.Context) error {
	events, count := api.dispatcher.Events()
	return ctx.JSON(http.StatusOK, echo.Map{
		"events":       events,
		"total_count":  count,
		"last_updated": time.Now().UTC().Format(time.RFC3339),
	})
}

func (api *eventGridApi) clear(ctx echo.Context) error {
	n := api.dispatcher.Clear()
	return ctx.JSON(http.StatusOK, echo.Map{
		"status":         "cleared",
		"cleared_events": n,
	})
}
