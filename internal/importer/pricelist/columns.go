package pricelist

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type column string

const (
	colBarcode      column = "barcode"
	colName         column = "name"
	colDescription  column = "description"
	colCostPrice    column = "cost_price"
	colRetailPrice  column = "retail_price"
	colMinStock     column = "min_stock"
	colSupplierCode column = "supplier_code"
	colQuantity     column = "quantity"
)

// aliases lists the header spellings seen in supplier exports, already in
// the form produced by normalizeHeader.
var aliases = map[string]column{
	"barcode":           colBarcode,
	"ean":               colBarcode,
	"ean13":             colBarcode,
	"code":              colBarcode,
	"κωδικος":           colBarcode,
	"barcode ειδους":    colBarcode,
	"γραμμωτος κωδικας": colBarcode,

	"name":             colName,
	"product":          colName,
	"product name":     colName,
	"item":             colName,
	"ονομα":            colName,
	"ειδος":            colName,
	"προιον":           colName,
	"ονομασια":         colName,
	"περιγραφη ειδους": colName,

	"description": colDescription,
	"details":     colDescription,
	"περιγραφη":   colDescription,
	"σχολια":      colDescription,

	"cost":           colCostPrice,
	"cost price":     colCostPrice,
	"purchase price": colCostPrice,
	"wholesale":      colCostPrice,
	"τιμη αγορας":    colCostPrice,
	"τιμη κοστους":   colCostPrice,
	"κοστος":         colCostPrice,
	"χονδρικη":       colCostPrice,

	"price":        colRetailPrice,
	"retail":       colRetailPrice,
	"retail price": colRetailPrice,
	"τιμη":         colRetailPrice,
	"τιμη πωλησης": colRetailPrice,
	"λιανικη":      colRetailPrice,

	"min stock":        colMinStock,
	"minimum":          colMinStock,
	"reorder level":    colMinStock,
	"ελαχιστο":         colMinStock,
	"ελαχιστο αποθεμα": colMinStock,

	"supplier code":      colSupplierCode,
	"sku":                colSupplierCode,
	"item code":          colSupplierCode,
	"κωδικος προμηθευτη": colSupplierCode,

	"quantity": colQuantity,
	"qty":      colQuantity,
	"stock":    colQuantity,
	"ποσοτητα": colQuantity,
	"αποθεμα":  colQuantity,
	"τεμαχια":  colQuantity,
}

// normalizeHeader lower-cases a header cell, strips accents and folds
// separators to single spaces, so "Τιμή_Αγοράς" and "τιμη αγορας" match.
func normalizeHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	folded = strings.ToLower(folded)
	folded = strings.NewReplacer("_", " ", "-", " ", ".", " ", ":", " ").Replace(folded)

	words := strings.Fields(folded)
	for i, w := range words {
		// Upper-case input lowers to a medial sigma at word end.
		if strings.HasSuffix(w, "σ") {
			words[i] = strings.TrimSuffix(w, "σ") + "ς"
		}
	}

	return strings.Join(words, " ")
}

// colIndex maps known columns to their index in the row.
type colIndex map[column]int

func headerColumns(row []string) colIndex {
	cols := make(colIndex)

	for i, cell := range row {
		c, ok := aliases[normalizeHeader(cell)]
		if !ok {
			continue
		}

		// First occurrence wins.
		if _, seen := cols[c]; !seen {
			cols[c] = i
		}
	}

	return cols
}

func (c colIndex) isHeader() bool {
	_, barcode := c[colBarcode]
	_, name := c[colName]

	return barcode && name
}

// cell safely gets a trimmed cell value for col.
func (c colIndex) cell(row []string, col column) string {
	idx, ok := c[col]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
