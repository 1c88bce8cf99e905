package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/pulse/internal/encoding"
	"github.com/MrJamesThe3rd/pulse/internal/money"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

var (
	ErrNoHeader   = errors.New("no sales header found: expected Data;Descrição;Valor[;Status]")
	ErrInvalidRow = errors.New("invalid row")
)

var dateLayouts = []string{
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02",
}

// Parser reads semicolon separated sales spreadsheets, the layout both Brazilian
// Excel and the month export produce.
type Parser struct {
	loc *time.Location
}

// NewParser interprets dates without a zone on the calendar of loc.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}

	return &Parser{loc: loc}
}

func (p *Parser) Parse(r io.Reader) ([]sale.CreateParams, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrNoHeader
	}

	params, skipped, err := p.parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	if err != nil {
		return nil, err
	}

	slog.Info("parsed sales sheet", "profile", profile.Name, "charset", charset, "rows", len(params), "skipped", skipped)

	return params, nil
}

// colIndex maps lower-cased header names to their column.
type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips rows without a readable date (totals, blank lines) and fails on
// dated rows whose amount or status cannot be read.
func (p *Parser) parseRows(prof *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]sale.CreateParams, int, error) {
	dateIdx := cols[prof.DateCol]
	descIdx := cols[prof.DescCol]
	amountIdx := cols[prof.AmountCol]

	statusIdx := -1
	if idx, ok := cols[prof.StatusCol]; ok {
		statusIdx = idx
	}

	var (
		params  []sale.CreateParams
		skipped int
	)

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		date, ok := p.parseDate(cellValue(row, dateIdx))
		if !ok {
			if !blank(row) {
				skipped++
			}

			continue
		}

		raw := cellValue(row, amountIdx)

		amount, err := money.ParseBRL(raw)
		if err != nil {
			return nil, 0, fmt.Errorf("%w %d: amount %q", ErrInvalidRow, rowNum, raw)
		}

		if amount.IsNegative() {
			return nil, 0, fmt.Errorf("%w %d: %w", ErrInvalidRow, rowNum, sale.ErrInvalidAmount)
		}

		status, err := ParseStatus(cellValue(row, statusIdx))
		if err != nil {
			return nil, 0, fmt.Errorf("%w %d: %w", ErrInvalidRow, rowNum, err)
		}

		params = append(params, sale.CreateParams{
			Amount:      amount,
			Date:        date,
			Description: cellValue(row, descIdx),
			Status:      status,
		})
	}

	return params, skipped, nil
}

func (p *Parser) parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseStatus accepts the Portuguese and English spellings. Empty means paid.
func ParseStatus(s string) (sale.Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pago", "paid":
		return sale.StatusPaid, nil
	case "pendente", "pending":
		return sale.StatusPending, nil
	}

	return "", fmt.Errorf("%w: %q", sale.ErrInvalidStatus, s)
}

// StatusLabel is the Portuguese spelling written to exported sheets.
func StatusLabel(s sale.Status) string {
	if s == sale.StatusPending {
		return "pendente"
	}

	return "pago"
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
