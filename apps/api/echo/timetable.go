package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/facsched/backend/core"
	"github.com/facsched/backend/core/faculty"
	"github.com/facsched/backend/services/importer"
)

type timetableApi struct {
	svc      faculty.Service
	validate *validator.Validate
}

func registerTimetableAPI(g *echo.Group, svc faculty.Service, validate *validator.Validate) {
	api := timetableApi{svc: svc, validate: validate}

	tg := g.Group("/timetables")
	tg.POST("/parse", api.parse)
	tg.POST("/import", api.importFile)
}

// parse is the live preview: the timetable is parsed, never saved.
func (api *timetableApi) parse(ctx echo.Context) error {
	var data ParseRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ParseRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	tt, err := api.svc.Preview(data.Input)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tt)
}

func (api *timetableApi) importFile(ctx echo.Context) error {
	fh, err := ctx.FormFile(importFileField)
	if err != nil {
		if err == http.ErrMissingFile {
			return errFileRequired
		}
		return errors.Wrap(err, "reading form file")
	}

	var form importForm
	if err = form.Bind(ctx, fh.Filename); err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening form file")
	}
	defer f.Close()

	text, err := importer.Read(f, form.format, importer.Options{Sheet: form.sheet})
	if err != nil {
		switch errors.Cause(err) {
		case importer.ErrUnknownFormat, importer.ErrNoTable, importer.ErrNoSheet:
			return err
		}
		return core.NewFieldValidationError(importFileField, err)
	}

	tt, err := api.svc.Preview(text)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tt)
}
