package item

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iancoleman/orderedmap"
	"github.com/xuri/excelize/v2"
)

// exportColumns is the single source of field order for every export format.
var exportColumns = []string{
	"id", "name", "category", "category_path", "subcategory",
	"description", "examples", "size_estimate_gb", "size_display",
	"tags", "source_url", "notes", "priority", "priority_display",
	"status", "status_display", "created_at", "updated_at",
}

var exportHeaders = []string{
	"ID", "Name", "Category", "Category Path", "Subcategory",
	"Description", "Examples", "Size (GB)", "Size Display",
	"Tags", "Source URL", "Notes", "Priority", "Priority Display",
	"Status", "Status Display", "Created At", "Updated At",
}

func exportRow(view ItemView) *orderedmap.OrderedMap {
	row := orderedmap.New()
	row.Set("id", view.ID)
	row.Set("name", view.Name)
	row.Set("category", view.CategoryName)
	row.Set("category_path", view.CategoryPath)
	row.Set("subcategory", view.Subcategory)
	row.Set("description", view.Description)
	row.Set("examples", view.Examples)
	if view.SizeEstimateGB != nil {
		row.Set("size_estimate_gb", *view.SizeEstimateGB)
	} else {
		row.Set("size_estimate_gb", nil)
	}
	row.Set("size_display", view.SizeText)
	row.Set("tags", view.Tags)
	row.Set("source_url", view.SourceURL)
	row.Set("notes", view.Notes)
	row.Set("priority", view.Priority)
	row.Set("priority_display", view.PriorityText)
	row.Set("status", view.Status)
	row.Set("status_display", view.StatusText)
	row.Set("created_at", view.CreatedAt.Format(time.RFC3339))
	row.Set("updated_at", view.UpdatedAt.Format(time.RFC3339))
	return row
}

func exportCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Export renders the filtered item set in the requested format. All formats
// share exportRow, so field semantics never drift between them.
func (is *ItemService) Export(input ItemListInput, format string) (contentType, filename string, out []byte, err error) {
	views, err := is.GetAll(input)
	if err != nil {
		return "", "", nil, err
	}

	rows := make([]*orderedmap.OrderedMap, 0, len(views))
	for _, view := range views {
		rows = append(rows, exportRow(view))
	}

	switch format {
	case "csv":
		out, err = buildCSV(rows)
		return "text/csv; charset=utf-8", "data_items.csv", out, err
	case "excel", "xlsx":
		out, err = buildXLSX(rows)
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "data_items.xlsx", out, err
	default:
		out, err = json.MarshalIndent(rows, "", "  ")
		return "application/json", "data_items.json", out, err
	}
}

func buildCSV(rows []*orderedmap.OrderedMap) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write(exportColumns); err != nil {
		return nil, err
	}

	for _, row := range rows {
		rec := make([]string, 0, len(exportColumns))
		for _, col := range exportColumns {
			v, _ := row.Get(col)
			rec = append(rec, exportCell(v))
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func buildXLSX(rows []*orderedmap.OrderedMap) ([]byte, error) {
	f := excelize.NewFile()

	const sheet = "Data Items"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#366092"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})

	// Materialize all rows first: the stream writer only accepts column
	// widths before the first SetRow.
	widths := make([]int, len(exportColumns))
	for i, h := range exportHeaders {
		widths[i] = len(h)
	}

	dataRows := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		values := make([]interface{}, 0, len(exportColumns))
		for i, col := range exportColumns {
			v, _ := row.Get(col)

			cell := exportCell(v)
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}

			// Numbers stay numbers in the sheet; everything else is text.
			switch t := v.(type) {
			case nil:
				values = append(values, "")
			case float64:
				values = append(values, t)
			case uint:
				values = append(values, t)
			default:
				values = append(values, cell)
			}
		}
		dataRows = append(dataRows, values)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, err
	}

	for i, width := range widths {
		w := float64(width + 2)
		if w > 50 {
			w = 50
		}
		if err := sw.SetColWidth(i+1, i+1, w); err != nil {
			return nil, err
		}
	}

	header := make([]interface{}, 0, len(exportHeaders))
	for _, h := range exportHeaders {
		header = append(header, excelize.Cell{Value: h, StyleID: headerStyle})
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}

	for i, values := range dataRows {
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cellRef, values); err != nil {
			return nil, err
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
