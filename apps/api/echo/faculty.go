package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/facsched/backend/core/faculty"
)

const calendarContentType = "text/calendar; charset=utf-8"

type facultyApi struct {
	svc      faculty.Service
	validate *validator.Validate
}

func registerFacultyAPI(g *echo.Group, svc faculty.Service, validate *validator.Validate) {
	api := facultyApi{
		svc:      svc,
		validate: validate,
	}

	mg := g.Group("/faculty/me")
	mg.GET("", api.retrieve)
	mg.PUT("", api.save)
	mg.POST("/complete", api.complete)
	mg.GET("/timetable", api.timetable)
	mg.GET("/timetable.ics", api.calendar)
	mg.GET("/classes", api.classes)
}

// Handlers

func (api *facultyApi) retrieve(ctx echo.Context) error {
	prn, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	p, err := api.svc.Get(ctx.Request().Context(), prn.ID)
	if err != nil {
		return errors.Wrap(err, "getting profile")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *facultyApi) save(ctx echo.Context) error {
	prn, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var data faculty.SaveProfile
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveProfile")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.Save(ctx.Request().Context(), prn, data)
	if err != nil {
		return errors.Wrap(err, "saving profile")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *facultyApi) complete(ctx echo.Context) error {
	prn, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	p, err := api.svc.Complete(ctx.Request().Context(), prn)
	if err != nil {
		return errors.Wrap(err, "completing signup")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *facultyApi) timetable(ctx echo.Context) error {
	prn, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	tt, err := api.svc.Timetable(ctx.Request().Context(), prn.ID)
	if err != nil {
		return errors.Wrap(err, "getting timetable")
	}
	return ctx.JSON(http.StatusOK, tt)
}

func (api *facultyApi) classes(ctx echo.Context) error {
	prn, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	classes, err := api.svc.Classes(ctx.Request().Context(), prn.ID)
	if err != nil {
		return errors.Wrap(err, "getting classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *facultyApi) calendar(ctx echo.Context) error {
	prn, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	cal, err := api.svc.Calendar(ctx.Request().Context(), prn.ID)
	if err != nil {
		return errors.Wrap(err, "getting calendar")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="timetable.ics"`)
	return ctx.Blob(http.StatusOK, calendarContentType, cal)
}
