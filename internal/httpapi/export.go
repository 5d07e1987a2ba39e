package httpapi

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"rentfolio/internal/models"
)

const paymentsSheet = "Rent Payments"

var paymentColumns = []string{
	"ID", "Property", "Tenant", "Year", "Month", "Due Date",
	"Rent", "Management Fee", "Total", "Rent Status", "Fee Status", "Paid On",
}

func (h *handler) exportRentPayments(c *gin.Context) {
	f, err := paymentFilter(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	payments, err := h.svc.Payments.List(c.Request.Context(), ownerID(c), f)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=rent_payments_%s.xlsx", h.now().Format("20060102")))
	if err := WritePaymentsXLSX(c.Writer, payments, h.now().Location()); err != nil {
		h.log.Error("failed to write rent payment export", zap.Error(err))
		_ = c.Error(err)
	}
}

// WritePaymentsXLSX renders payments as a single-sheet workbook. Dates are
// written as calendar days in loc.
func WritePaymentsXLSX(w io.Writer, payments []models.RentPayment, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(paymentsSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	header := make([]interface{}, len(paymentColumns))
	for i, name := range paymentColumns {
		header[i] = name
	}
	if err := writeRow(f, 1, header); err != nil {
		return err
	}

	for i, p := range payments {
		var property, tenant string
		if p.Lease != nil {
			if p.Lease.Property != nil {
				property = p.Lease.Property.Name
			}
			if p.Lease.Tenant != nil {
				tenant = p.Lease.Tenant.Name
			}
		}
		paidOn := ""
		if p.PaymentDate != nil {
			paidOn = p.PaymentDate.In(loc).Format("2006-01-02")
		}

		err := writeRow(f, i+2, []interface{}{
			p.ID,
			property,
			tenant,
			p.PaymentYear,
			p.PaymentMonth,
			p.DueDate.In(loc).Format("2006-01-02"),
			p.RentAmount.InexactFloat64(),
			p.ManagementFeeAmount.InexactFloat64(),
			p.TotalAmount.InexactFloat64(),
			string(p.RentStatus),
			string(p.ManagementFeeStatus),
			paidOn,
		})
		if err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeRow(f *excelize.File, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", row, err)
		}
		if err := f.SetCellValue(paymentsSheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}
