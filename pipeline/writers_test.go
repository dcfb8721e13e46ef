package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aluiziolira/go-scrape-laptops/models"
	"github.com/google/go-cmp/cmp"
)

func sampleCleanRow() *models.CleanRow {
	return &models.CleanRow{
		BrandName:       "acer",
		PriceLog:        models.Float(10.5),
		ProcFreq:        models.Float(2.4),
		ProcBrand:       "intel",
		ProcName:        "intel core i5",
		ProcCount:       models.Float(4),
		Videocard:       "geforce rtx",
		VideocardMemory: models.Float(4),
		Screen:          models.Float(15),
		SSDVolume:       512,
		RAM:             nil,
		HDMI:            true,
		Material:        "металл",
		BatteryLife:     models.Float(10),
	}
}

func TestCSVWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clean_data.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}

	if err := writer.Write([]*models.CleanRow{sampleCleanRow()}); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate csv: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d, want 2", len(records))
	}
	if diff := cmp.Diff(Columns, records[0]); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	want := []string{"acer", "10.5", "2.4", "intel", "intel core i5", "4", "geforce rtx", "4", "15", "512", "", "true", "металл", "10"}
	if diff := cmp.Diff(want, records[1]); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clean_data.jsonl")

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}

	rows := []*models.CleanRow{sampleCleanRow(), sampleCleanRow()}
	if err := writer.Write(rows); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open json: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		var decoded models.CleanRow
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid json line: %v", err)
		}
		if diff := cmp.Diff(sampleCleanRow(), &decoded); diff != "" {
			t.Fatalf("decoded row mismatch (-want +got):\n%s", diff)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan json: %v", err)
	}
	if count != 2 {
		t.Fatalf("json lines=%d, want 2", count)
	}
}

func TestDualWriterWrite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out", "clean_data.csv")
	jsonPath := filepath.Join(dir, "out", "clean_data.jsonl")

	writer, err := NewDualWriter(csvPath, jsonPath)
	if err != nil {
		t.Fatalf("create dual writer: %v", err)
	}

	if err := writer.Write([]*models.CleanRow{sampleCleanRow()}); err != nil {
		t.Fatalf("write dual: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate dual: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close dual: %v", err)
	}

	if info, err := os.Stat(csvPath); err != nil || info.Size() == 0 {
		t.Fatalf("csv file missing or empty")
	}
	if info, err := os.Stat(jsonPath); err != nil || info.Size() == 0 {
		t.Fatalf("json file missing or empty")
	}
}

func TestWritersRejectEmptyOutput(t *testing.T) {
	dir := t.TempDir()

	csvWriter, err := NewCSVWriter(filepath.Join(dir, "clean_data.csv"))
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}
	defer csvWriter.Close()
	if err := csvWriter.Validate(); !errors.Is(err, errEmptyOutput) {
		t.Fatalf("csv validate err = %v, want %v", err, errEmptyOutput)
	}

	jsonWriter, err := NewJSONWriter(filepath.Join(dir, "clean_data.jsonl"))
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}
	defer jsonWriter.Close()
	if err := jsonWriter.Validate(); !errors.Is(err, errEmptyOutput) {
		t.Fatalf("json validate err = %v, want %v", err, errEmptyOutput)
	}

	dualWriter, err := NewDualWriter(filepath.Join(dir, "dual", "clean_data.csv"), filepath.Join(dir, "dual", "clean_data.jsonl"))
	if err != nil {
		t.Fatalf("create dual writer: %v", err)
	}
	defer dualWriter.Close()
	err = dualWriter.Validate()
	if !errors.Is(err, errEmptyOutput) {
		t.Fatalf("dual validate err = %v, want %v", err, errEmptyOutput)
	}
	if !strings.Contains(err.Error(), "csv output") || !strings.Contains(err.Error(), "json output") {
		t.Fatalf("dual validate err = %v, want both outputs reported", err)
	}
}
