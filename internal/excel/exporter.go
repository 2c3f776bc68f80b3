package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/learningremind/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ExportConfig defines the export configuration
type ExportConfig struct {
	FilePath      string // Destination path; .csv writes CSV, anything else Excel
	SheetName     string // Name of the sheet to write
	IncludeHeader bool   // Write a header row before the words
}

// DefaultExportConfig returns the default export configuration. The
// sheet name is left empty so the export uses the collection's name.
func DefaultExportConfig(path string) ExportConfig {
	return ExportConfig{
		FilePath:      path,
		IncludeHeader: true,
	}
}

// ExportResult holds the result of an export operation
type ExportResult struct {
	FilePath      string
	WordsExported int
}

var header = []string{"Word", "Translation", "Example"}

// ExportWords writes a collection's words to an Excel or CSV file,
// chosen by the destination extension.
func ExportWords(config ExportConfig, collection *models.Collection, words []models.Word) (*ExportResult, error) {
	if config.SheetName == "" {
		config.SheetName = collection.Name
	}
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		return exportToCSV(config, words)
	}
	return exportToExcel(config, words)
}

// exportToExcel writes words to an Excel file
func exportToExcel(config ExportConfig, words []models.Word) (*ExportResult, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, fmt.Errorf("failed to rename sheet: %v", err)
		}
	}

	row := 1
	if config.IncludeHeader {
		for col, name := range header {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return nil, fmt.Errorf("failed to write header: %v", err)
			}
		}
		row++
	}

	for _, word := range words {
		values := []string{word.Word, word.Translation, word.Example}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write word row: %v", err)
			}
		}
		row++
	}

	if err := f.SaveAs(config.FilePath); err != nil {
		return nil, fmt.Errorf("failed to save Excel file: %v", err)
	}

	return &ExportResult{FilePath: config.FilePath, WordsExported: len(words)}, nil
}

// exportToCSV writes words to a CSV file
func exportToCSV(config ExportConfig, words []models.Word) (*ExportResult, error) {
	file, err := os.Create(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if config.IncludeHeader {
		if err := w.Write(header); err != nil {
			return nil, fmt.Errorf("failed to write header: %v", err)
		}
	}
	for _, word := range words {
		if err := w.Write([]string{word.Word, word.Translation, word.Example}); err != nil {
			return nil, fmt.Errorf("failed to write word row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV file: %v", err)
	}

	return &ExportResult{FilePath: config.FilePath, WordsExported: len(words)}, nil
}
