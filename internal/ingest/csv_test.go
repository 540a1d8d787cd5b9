package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const extractHeader = "order_number,item_number,product_code,tax_id,company_name,channel,center,value,reference,status"

func TestReadExtract(t *testing.T) {
	body := extractHeader + "\n" +
		"1001,10,SKU-1,04512345000177,ACME LTDA,DIRECT,DC-01,10.50,Q1,OPEN\n" +
		"1002,10,SKU-2,98765432000155,BETA SA,RESALE,DC-02,7.00,Q1,\n"

	rows, err := ReadExtract(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1001", rows[0][ColOrderNumber])
	assert.Equal(t, "ACME LTDA", rows[0][ColCompanyName])
	assert.Equal(t, "", rows[1][ColStatus])
}

func TestReadExtract_ResolvesHeaderVariants(t *testing.T) {
	body := "Order Number,ITEM_NUMBER,Product Code,Tax ID,Company Name,Channel,Center,Value,Reference,Status\n" +
		"1,1,P,T,C,CH,CE,1.00,R,S\n"

	rows, err := ReadExtract(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0][ColOrderNumber])
	assert.Equal(t, "P", rows[0][ColProductCode])
}

func TestReadExtract_MissingColumnFailsFast(t *testing.T) {
	body := "order_number,item_number\n1,2\n"

	_, err := ReadExtract(strings.NewReader(body))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
}

func TestReadExtract_EmptyFile(t *testing.T) {
	_, err := ReadExtract(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
}

func TestReadExtract_HeaderOnlyYieldsNoRows(t *testing.T) {
	rows, err := ReadExtract(strings.NewReader(extractHeader + "\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
