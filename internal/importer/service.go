package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/shoplite/internal/catalog"
	"github.com/MrJamesThe3rd/shoplite/internal/importer/pricelist"
)

// Options tune a single import. SupplierID is assigned to every row that
// does not already name a supplier.
type Options struct {
	Charset    string
	SupplierID *int64
}

type Service struct {
	priceListImporter Importer
}

func NewService() *Service {
	return &Service{
		priceListImporter: pricelist.NewParser(),
	}
}

func (s *Service) Import(format Format, r io.Reader, opts Options) ([]catalog.ImportRow, []catalog.RowError, error) {
	var importer Importer

	switch format {
	case FormatPriceList, "":
		importer = s.priceListImporter
	default:
		return nil, nil, fmt.Errorf("unknown format: %s", format)
	}

	rows, rowErrs, err := importer.Parse(r, opts.Charset)
	if err != nil {
		return nil, nil, err
	}

	if opts.SupplierID != nil {
		for i := range rows {
			if rows[i].Product.SupplierID == nil {
				id := *opts.SupplierID
				rows[i].Product.SupplierID = &id
			}
		}
	}

	return rows, rowErrs, nil
}
