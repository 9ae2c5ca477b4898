package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core"
	"github.com/assignkun/assignkun/core/assignkun"
)

type assignKunApi struct {
	svc *assignkun.Service
}

func registerAssignKunAPI(e *echo.Echo, svc *assignkun.Service) {
	api := assignKunApi{svc: svc}

	g := e.Group("/assign-kun")
	g.GET("/histograms", api.histograms)
	g.GET("/projects", api.projects)
	g.GET("/users", api.users)
	g.GET("/notices", api.notices)
	g.GET("/assigns", api.assigns)
}

func (api *assignKunApi) histograms(ctx echo.Context) error {
	var month *int
	if v := ctx.QueryParam("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return core.NewValidationError(errors.New("month must be a number"),
				core.FieldError{Field: "month", Error: "must be a number"})
		}
		month = &m
	}

	rows, err := api.svc.Histograms(ctx.Request().Context(), month)
	if err != nil {
		return errors.Wrap(err, "listing histograms")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"histograms":  rows,
		"total_count": len(rows),
	})
}

func (api *assignKunApi) projects(ctx echo.Context) error {
	page := intQueryParam(ctx, "page", 1)
	perPage := intQueryParam(ctx, "per_page", 10)

	list, err := api.svc.Projects(ctx.Request().Context(), page, perPage)
	if err != nil {
		return errors.Wrap(err, "listing projects")
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *assignKunApi) users(ctx echo.Context) error {
	page := intQueryParam(ctx, "page", 1)
	perPage := intQueryParam(ctx, "per_page", 10)

	list, err := api.svc.Users(ctx.Request().Context(), page, perPage,
		ctx.QueryParam("team"), ctx.QueryParam("user_type"))
	if err != nil {
		return errors.Wrap(err, "listing users")
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *assignKunApi) notices(ctx echo.Context) error {
	page := intQueryParam(ctx, "page", 1)
	perPage := intQueryParam(ctx, "per_page", 10)

	list, err := api.svc.Notices(ctx.Request().Context(), page, perPage,
		ctx.QueryParam("user_name"), ctx.QueryParam("notice_type"))
	if err != nil {
		return errors.Wrap(err, "listing notices")
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *assignKunApi) assigns(ctx echo.Context) error {
	list, err := api.svc.AssignSummary(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "summarizing assigns")
	}
	return ctx.JSON(http.StatusOK, list)
}
