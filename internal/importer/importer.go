package importer

import (
	"io"

	"github.com/MrJamesThe3rd/shoplite/internal/catalog"
)

type Format string

const (
	FormatPriceList Format = "pricelist"
)

// Importer turns an uploaded file into catalog rows. Rows that cannot be
// read are returned as row errors instead of failing the whole file.
type Importer interface {
	Parse(r io.Reader, charset string) ([]catalog.ImportRow, []catalog.RowError, error)
}
