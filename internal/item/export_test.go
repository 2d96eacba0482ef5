package item

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExport_JSONAndCSVShareFields(t *testing.T) {
	db := newTestDB(t)
	svc := &ItemService{DB: db}

	cat := seedCategory(t, db, "Media")
	seedItem(t, db, "Concert Footage", cat.ID, func(di *DataItem) {
		di.SizeEstimateGB = floatPtr(1500)
		di.Priority = PriorityHigh
		di.Status = StatusArchived
		di.Tags = "video, raw"
	})
	seedItem(t, db, "Setlists", cat.ID, func(di *DataItem) {
		di.Priority = PriorityLow
	})

	contentType, filename, out, err := svc.Export(ItemListInput{}, "json")
	if err != nil {
		t.Fatalf("json export: %v", err)
	}
	if contentType != "application/json" || filename != "data_items.json" {
		t.Fatalf("unexpected json headers: %s %s", contentType, filename)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(out, &rows); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	jsonSizes := map[string]string{}
	for _, row := range rows {
		for _, col := range exportColumns {
			if _, ok := row[col]; !ok {
				t.Fatalf("json row missing column %q", col)
			}
		}
		jsonSizes[row["name"].(string)] = row["size_display"].(string)
	}
	if jsonSizes["Concert Footage"] != "1.46 TB" {
		t.Fatalf("unexpected size display: %q", jsonSizes["Concert Footage"])
	}
	if jsonSizes["Setlists"] != "Unknown" {
		t.Fatalf("unexpected size display: %q", jsonSizes["Setlists"])
	}

	contentType, filename, out, err = svc.Export(ItemListInput{}, "csv")
	if err != nil {
		t.Fatalf("csv export: %v", err)
	}
	if contentType != "text/csv; charset=utf-8" || filename != "data_items.csv" {
		t.Fatalf("unexpected csv headers: %s %s", contentType, filename)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(exportColumns, ",") {
		t.Fatalf("unexpected csv header: %v", records[0])
	}

	nameCol, sizeCol := colIndex(t, "name"), colIndex(t, "size_display")
	for _, rec := range records[1:] {
		if jsonSizes[rec[nameCol]] != rec[sizeCol] {
			t.Fatalf("csv size_display %q disagrees with json %q for %q",
				rec[sizeCol], jsonSizes[rec[nameCol]], rec[nameCol])
		}
	}
}

func TestExport_XLSXIsReadable(t *testing.T) {
	db := newTestDB(t)
	svc := &ItemService{DB: db}

	cat := seedCategory(t, db, "Media")
	seedItem(t, db, "Concert Footage", cat.ID, func(di *DataItem) {
		di.SizeEstimateGB = floatPtr(200)
	})

	contentType, filename, out, err := svc.Export(ItemListInput{}, "excel")
	if err != nil {
		t.Fatalf("xlsx export: %v", err)
	}
	if filename != "data_items.xlsx" {
		t.Fatalf("unexpected filename: %s", filename)
	}
	if !strings.Contains(contentType, "spreadsheetml") {
		t.Fatalf("unexpected content type: %s", contentType)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheetRows, err := f.GetRows("Data Items")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(sheetRows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(sheetRows))
	}
	if sheetRows[0][0] != "ID" || sheetRows[0][1] != "Name" {
		t.Fatalf("unexpected header row: %v", sheetRows[0])
	}
	if sheetRows[1][1] != "Concert Footage" {
		t.Fatalf("unexpected data row: %v", sheetRows[1])
	}
}

func TestExport_DefaultFormatIsJSON(t *testing.T) {
	db := newTestDB(t)
	svc := &ItemService{DB: db}

	contentType, filename, out, err := svc.Export(ItemListInput{}, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if contentType != "application/json" || filename != "data_items.json" {
		t.Fatalf("unexpected default format: %s %s", contentType, filename)
	}
	if string(out) != "[]" {
		t.Fatalf("expected empty array, got %q", out)
	}
}

func colIndex(t *testing.T, name string) int {
	t.Helper()
	for i, col := range exportColumns {
		if col == name {
			return i
		}
	}
	t.Fatalf("unknown export column %q", name)
	return -1
}
