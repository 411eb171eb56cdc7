package pricelist

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/catalog"
	enc "github.com/MrJamesThe3rd/shoplite/internal/encoding"
)

// Parser reads supplier price lists. The header row may be preceded by any
// number of preamble lines; it is the first row naming both a barcode and
// a name column.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader, charset string) ([]catalog.ImportRow, []catalog.RowError, error) {
	utf8r, err := enc.NewUTF8Reader(r, charset)
	if err != nil {
		return nil, nil, apperr.Invalid("charset", "%v", err)
	}

	br := bufio.NewReader(utf8r)

	sample, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, nil, fmt.Errorf("read price list: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(string(sample))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		cols    colIndex
		rows    []catalog.ImportRow
		rowErrs []catalog.RowError
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, nil, apperr.Invalid("file", "malformed csv: %v", err)
		}

		line, _ := reader.FieldPos(0)

		if cols == nil {
			if c := headerColumns(record); c.isHeader() {
				cols = c
			}

			continue
		}

		if blank(record) {
			continue
		}

		row, rowErr := parseRow(cols, record, line)
		if rowErr != nil {
			rowErrs = append(rowErrs, *rowErr)
			continue
		}

		rows = append(rows, row)
	}

	if cols == nil {
		return nil, nil, apperr.Invalid("file", "no header row with barcode and name columns")
	}

	return rows, rowErrs, nil
}

func parseRow(cols colIndex, record []string, line int) (catalog.ImportRow, *catalog.RowError) {
	params := catalog.ProductParams{
		Barcode:      cols.cell(record, colBarcode),
		Name:         cols.cell(record, colName),
		Description:  cols.cell(record, colDescription),
		SupplierCode: cols.cell(record, colSupplierCode),
	}

	fail := func(format string, args ...any) (catalog.ImportRow, *catalog.RowError) {
		return catalog.ImportRow{}, &catalog.RowError{
			Line:    line,
			Barcode: params.Barcode,
			Message: fmt.Sprintf(format, args...),
		}
	}

	if params.Barcode == "" {
		return fail("barcode is required")
	}

	if params.Name == "" {
		return fail("name is required")
	}

	if s := cols.cell(record, colCostPrice); s != "" {
		d, err := parseAmount(s)
		if err != nil {
			return fail("cost_price: %v", err)
		}

		params.CostPrice = d
	}

	if s := cols.cell(record, colRetailPrice); s != "" {
		d, err := parseAmount(s)
		if err != nil {
			return fail("retail_price: %v", err)
		}

		params.RetailPrice = d
	}

	if s := cols.cell(record, colMinStock); s != "" {
		n, err := parseCount(s)
		if err != nil {
			return fail("min_stock: %v", err)
		}

		params.MinStock = &n
	}

	if s := cols.cell(record, colQuantity); s != "" {
		n, err := parseCount(s)
		if err != nil {
			return fail("quantity: %v", err)
		}

		params.Quantity = &n
	}

	return catalog.ImportRow{Line: line, Product: params}, nil
}

// detectDelimiter picks the separator that occurs most often in the first
// lines of the file. Semicolon wins ties since decimal commas are common.
func detectDelimiter(sample string) rune {
	lines := strings.SplitN(sample, "\n", 6)
	if len(lines) > 5 {
		lines = lines[:5]
	}

	best, bestCount := ';', 0

	for _, d := range []rune{';', ',', '\t'} {
		n := 0
		for _, l := range lines {
			n += strings.Count(l, string(d))
		}

		if n > bestCount {
			best, bestCount = d, n
		}
	}

	return best
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
