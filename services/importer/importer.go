// Package importer turns spreadsheet, document and web page exports of a
// timetable into the delimited text accepted by timetable.Parse.
package importer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	docx "github.com/fumiama/go-docx"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/facsched/backend/core/timetable"
)

type Format string

const (
	FormatText Format = "text"
	FormatXLSX Format = "xlsx"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
)

var (
	// errors
	ErrUnknownFormat = errors.New("unknown import format")
	ErrNoTable       = errors.New("no table found")
	ErrNoSheet       = errors.New("sheet not found")

	cellSpaceReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")
)

// Options customizes Read.
type Options struct {
	Sheet string // xlsx sheet name; the first sheet when empty
}

// ParseFormat returns the format named s ("txt", "xlsx", "docx", "html", ...).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "text", "txt", "tsv", "csv":
		return FormatText, nil
	case "xlsx", "xlsm":
		return FormatXLSX, nil
	case "docx":
		return FormatDOCX, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", errors.Wrap(ErrUnknownFormat, s)
}

// FormatFromFilename guesses the format from the file extension, defaulting to text.
func FormatFromFilename(name string) Format {
	f, err := ParseFormat(filepath.Ext(name))
	if err != nil {
		return FormatText
	}
	return f
}

// Read converts r into tab delimited lines, one per table row.
func Read(r io.Reader, format Format, opts Options) (string, error) {
	switch format {
	case FormatText, "":
		b, err := io.ReadAll(r)
		if err != nil {
			return "", errors.Wrap(err, "reading text")
		}
		return string(b), nil
	case FormatXLSX:
		return readXLSX(r, opts.Sheet)
	case FormatDOCX:
		return readDOCX(r)
	case FormatHTML:
		return readHTML(r)
	}
	return "", errors.Wrap(ErrUnknownFormat, string(format))
}

// ReadFile reads the file at path, guessing its format when format is empty.
func ReadFile(path string, format Format, opts Options) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if format == "" {
		format = FormatFromFilename(path)
	}
	return Read(f, format, opts)
}

// Parse reads r and parses the result as a timetable.
func Parse(r io.Reader, format Format, opts Options, parseOpts ...timetable.Option) (*timetable.Timetable, error) {
	text, err := Read(r, format, opts)
	if err != nil {
		return nil, err
	}
	return timetable.Parse(text, parseOpts...)
}

func readXLSX(r io.Reader, sheet string) (string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", errors.Wrap(err, "opening xlsx")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return "", ErrNoSheet
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return "", errors.Wrap(ErrNoSheet, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", errors.Wrapf(err, "reading sheet %q", sheet)
	}
	return joinRows(rows), nil
}

func readDOCX(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "reading docx")
	}
	doc, err := docx.Parse(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", errors.Wrap(err, "opening docx")
	}

	table := firstTable(doc)
	if table == nil {
		return "", ErrNoTable
	}

	rows := make([][]string, 0, len(table.TableRows))
	for _, tr := range table.TableRows {
		row := make([]string, 0, len(tr.TableCells))
		for _, tc := range tr.TableCells {
			paras := make([]string, 0, len(tc.Paragraphs))
			for _, p := range tc.Paragraphs {
				if s := strings.TrimSpace(p.String()); s != "" {
					paras = append(paras, s)
				}
			}
			row = append(row, strings.Join(paras, " "))
		}
		rows = append(rows, row)
	}
	return joinRows(rows), nil
}

func firstTable(doc *docx.Docx) *docx.Table {
	for _, it := range doc.Document.Body.Items {
		if t, ok := it.(*docx.Table); ok {
			return t
		}
	}
	return nil
}

func readHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", errors.Wrap(err, "parsing html")
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return "", ErrNoTable
	}

	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// skip rows of nested tables
		if tr.Closest("table").Get(0) != table.Get(0) {
			return
		}
		var row []string
		tr.ChildrenFiltered("th, td").Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.Join(strings.Fields(td.Text()), " "))
		})
		rows = append(rows, row)
	})
	return joinRows(rows), nil
}

// joinRows writes one tab delimited line per row. Rows without any content are dropped.
func joinRows(rows [][]string) string {
	var sb strings.Builder
	for _, row := range rows {
		blank := true
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(cellSpaceReplacer.Replace(c))
			if cells[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		sb.WriteString(strings.Join(cells, "\t"))
		sb.WriteByte('\n')
	}
	return sb.String()
}
