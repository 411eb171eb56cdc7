package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/shoplite/internal/importer"
)

func TestService_Import_AssignsSupplier(t *testing.T) {
	csv := "barcode;name;supplier code\n111;Milk;M1\n222;Bread;B2\n"

	supplierID := int64(7)

	rows, rowErrs, err := importer.NewService().Import(importer.FormatPriceList, strings.NewReader(csv), importer.Options{
		SupplierID: &supplierID,
	})
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)

	for _, row := range rows {
		require.NotNil(t, row.Product.SupplierID)
		assert.Equal(t, int64(7), *row.Product.SupplierID)
	}

	// Each row owns its own copy.
	*rows[0].Product.SupplierID = 8
	assert.Equal(t, int64(7), *rows[1].Product.SupplierID)
}

func TestService_Import_UnknownFormat(t *testing.T) {
	_, _, err := importer.NewService().Import("xlsx", strings.NewReader(""), importer.Options{})
	assert.Error(t, err)
}
