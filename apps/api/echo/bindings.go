package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/facsched/backend/services/importer"
)

const (
	importFileField   = "file"
	importFormatField = "format"
	importSheetField  = "sheet"
)

// ParseRequest is the live preview payload.
type ParseRequest struct {
	Input string `json:"input" validate:"notblank"`
}

func (r *ParseRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

// importForm holds the optional fields of the import form.
type importForm struct {
	format importer.Format
	sheet  string
}

func (f *importForm) Bind(ctx echo.Context, filename string) error {
	f.sheet = ctx.FormValue(importSheetField)
	if name := ctx.FormValue(importFormatField); name != "" {
		format, err := importer.ParseFormat(name)
		if err != nil {
			return err
		}
		f.format = format
		return nil
	}
	f.format = importer.FormatFromFilename(filename)
	return nil
}
