package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"goeha/internal/domain"
	"goeha/internal/service"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv
var ErrUnsupportedFormat = errors.New("unsupported import format")

// Column order of an import file
const (
	colWord = iota
	colMeaning
	colExample
	colHardness
)

// Config defines the import configuration
type Config struct {
	FilePath   string // Path to the Excel or CSV file
	SheetName  string // Sheet to import, the first one when empty
	SkipHeader bool   // Skip the first row
}

// DefaultConfig returns the default import configuration for path
func DefaultConfig(path string) Config {
	return Config{
		FilePath:   path,
		SkipHeader: true,
	}
}

// Result holds the result of an import operation
type Result struct {
	Processed int
	Created   int
	Skipped   int
	Errors    []string
}

// WordStore is the part of the word service the importer needs
type WordStore interface {
	AddWord(ctx context.Context, fields domain.WordFields) (int64, error)
	ListWords(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error)
}

// Importer loads words from spreadsheets
type Importer struct {
	words  WordStore
	logger *zap.Logger
}

// New creates a new importer
func New(words WordStore, logger *zap.Logger) *Importer {
	return &Importer{words: words, logger: logger}
}

// Import reads cfg.FilePath and adds every new word. Rows with invalid
// data are reported in Result.Errors, storage failures abort the import.
func (im *Importer) Import(ctx context.Context, cfg Config) (*Result, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(cfg.FilePath)) {
	case ".csv":
		rows, err = readCSV(cfg.FilePath)
	case ".xlsx", ".xlsm":
		rows, err = readExcel(cfg.FilePath, cfg.SheetName)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, cfg.FilePath)
	}
	if err != nil {
		return nil, err
	}

	if cfg.SkipHeader && len(rows) > 0 {
		rows = rows[1:]
	}

	result := &Result{Errors: make([]string, 0)}
	first := 1
	if cfg.SkipHeader {
		first = 2
	}

	for i, row := range rows {
		if err := im.processRow(ctx, row, first+i, result); err != nil {
			return result, err
		}
	}

	im.logger.Info("Import finished",
		zap.String("file", cfg.FilePath),
		zap.Int("processed", result.Processed),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

func (im *Importer) processRow(ctx context.Context, row []string, rowNum int, result *Result) error {
	if isBlank(row) {
		return nil
	}
	result.Processed++

	fields, err := parseRow(row)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		return nil
	}

	existing, err := im.words.ListWords(ctx, domain.WordFilter{Word: &fields.Word})
	if err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	if len(existing) > 0 {
		result.Skipped++
		return nil
	}

	if _, err := im.words.AddWord(ctx, fields); err != nil {
		if service.IsValidationError(err) {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			return nil
		}
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	result.Created++
	return nil
}

// parseRow maps a row to word fields
func parseRow(row []string) (domain.WordFields, error) {
	fields := domain.WordFields{
		Word:    cell(row, colWord),
		Meaning: cell(row, colMeaning),
		Example: cell(row, colExample),
	}

	switch strings.ToLower(cell(row, colHardness)) {
	case "", "0", "no", "normal":
		fields.Hardness = domain.HardnessNormal
	case "1", "yes", "hard":
		fields.Hardness = domain.HardnessHard
	default:
		return fields, domain.ErrInvalidHardness
	}

	fields = fields.Normalize()
	return fields, fields.Validate()
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// readExcel returns the rows of the sheet
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("no sheets in %s", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV returns all records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
