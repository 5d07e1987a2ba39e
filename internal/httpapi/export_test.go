package httpapi_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rentfolio/internal/httpapi"
	"rentfolio/internal/models"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func exportRows() []models.RentPayment {
	kst := time.FixedZone("KST", 9*60*60)
	paid := time.Date(2024, time.March, 1, 10, 0, 0, 0, kst).UTC()
	return []models.RentPayment{{
		ID:                  7,
		PaymentYear:         2024,
		PaymentMonth:        3,
		DueDate:             time.Date(2024, time.March, 1, 0, 0, 0, 0, kst).UTC(),
		RentAmount:          decimal.NewFromInt(1_000_000),
		ManagementFeeAmount: decimal.NewFromInt(100_000),
		TotalAmount:         decimal.NewFromInt(1_100_000),
		RentStatus:          models.PaymentStatusPaid,
		ManagementFeeStatus: models.PaymentStatusPending,
		PaymentDate:         &paid,
	}}
}

func TestWritePaymentsXLSXWithoutLease(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, httpapi.WritePaymentsXLSX(&buf, exportRows(), time.FixedZone("KST", 9*60*60)))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Rent Payments")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Due Date", rows[0][5])
	assert.Equal(t, "7", rows[1][0])
	assert.Equal(t, "", rows[1][1], "no lease loaded")
	assert.Equal(t, "2024-03-01", rows[1][5], "due day in the export zone")
	assert.Equal(t, "PAID", rows[1][9])
	assert.Equal(t, "2024-03-01", rows[1][11])

	sheets := book.GetSheetList()
	assert.Equal(t, []string{"Rent Payments"}, sheets)
}

func TestWritePaymentsXLSXReturnsWriteError(t *testing.T) {
	err := httpapi.WritePaymentsXLSX(failingWriter{}, exportRows(), nil)
	assert.ErrorContains(t, err, "disk full")
}
