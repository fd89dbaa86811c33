// Package dataset loads row-level sales records from tabular files.
// CSV and XLSX sources are supported; rows that fail to parse are
// skipped rather than failing the load.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/salescope/salescope/internal/domain/model"
	"github.com/salescope/salescope/pkg/logger"
	"github.com/salescope/salescope/pkg/metrics"
	"github.com/xuri/excelize/v2"
)

// Required column headers. Matching is exact.
var requiredColumns = []string{
	"Model",
	"Region",
	"Fuel_Type",
	"Transmission",
	"Color",
	"Year",
	"Price_USD",
	"Sales_Volume",
	"Engine_Size_L",
	"Mileage_KM",
}

// Optional column headers.
const (
	colTotalRevenue  = "Total_Revenue"
	colPriceCategory = "Price_Category"
	colModelCategory = "Model_Category"
)

// Load reads sales records from path, picking the parser by file
// extension. A missing file yields ErrNotFound.
func Load(ctx context.Context, path string) ([]model.SalesRecord, error) {
	start := time.Now()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	records, skipped, err := parseRows(rows)
	if err != nil {
		return nil, err
	}

	log := logger.Get().Named("dataset")
	if skipped > 0 {
		log.Warn(ctx, "skipped malformed rows",
			logger.Int("skipped", skipped),
			logger.String("path", path))
	}
	log.Info(ctx, "dataset loaded",
		logger.String("path", path),
		logger.Int("records", len(records)))

	metrics.AddRecordsLoaded(len(records))
	metrics.RecordDatasetLoadDuration(time.Since(start).Seconds() * 1000)
	return records, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRead, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return rows, nil
}

// parseRows maps the header row to column indexes and converts the
// remaining rows into records. Rows with missing cells or unparsable
// numbers are counted and dropped.
func parseRows(rows [][]string) ([]model.SalesRecord, int, error) {
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("%w: empty file", ErrRead)
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	records := make([]model.SalesRecord, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		rec, ok := parseRow(row, index)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func parseRow(row []string, index map[string]int) (model.SalesRecord, bool) {
	cell := func(name string) (string, bool) {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	rec := model.SalesRecord{}
	for _, bind := range []struct {
		name string
		dst  *string
	}{
		{"Model", &rec.Model},
		{"Region", &rec.Region},
		{"Fuel_Type", &rec.FuelType},
		{"Transmission", &rec.Transmission},
		{"Color", &rec.Color},
	} {
		v, ok := cell(bind.name)
		if !ok || v == "" {
			return model.SalesRecord{}, false
		}
		*bind.dst = v
	}

	yearText, ok := cell("Year")
	if !ok {
		return model.SalesRecord{}, false
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return model.SalesRecord{}, false
	}
	rec.Year = year

	for _, bind := range []struct {
		name string
		dst  *float64
	}{
		{"Price_USD", &rec.PriceUSD},
		{"Sales_Volume", &rec.SalesVolume},
		{"Engine_Size_L", &rec.EngineSizeL},
		{"Mileage_KM", &rec.MileageKM},
	} {
		v, ok := cell(bind.name)
		if !ok {
			return model.SalesRecord{}, false
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return model.SalesRecord{}, false
		}
		*bind.dst = f
	}

	// Optional columns never fail a row; an unparsable revenue cell
	// just leaves the field unset.
	if v, ok := cell(colTotalRevenue); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			rec.TotalRevenue = &f
		}
	}
	if v, ok := cell(colPriceCategory); ok {
		rec.PriceCategory = v
	}
	if v, ok := cell(colModelCategory); ok {
		rec.ModelCategory = v
	}

	return rec, true
}
