package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentfolio/internal/apperr"
	"rentfolio/internal/models"
	"rentfolio/internal/rent"
	"rentfolio/internal/store"
)

func (h *handler) generateRentPayments(c *gin.Context) {
	var in rent.GenerateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.svc.Generator.Generate(c.Request.Context(), ownerID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *handler) overduePayments(c *gin.Context) {
	payments, err := h.svc.Overdue.Detect(c.Request.Context(), ownerID(c), h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// paymentFilter reads leaseId, propertyId, year, month and status.
func paymentFilter(c *gin.Context) (store.PaymentFilter, error) {
	var (
		f   store.PaymentFilter
		err error
	)
	if f.LeaseID, err = optionalUint(c, "leaseId"); err != nil {
		return f, err
	}
	if f.PropertyID, err = optionalUint(c, "propertyId"); err != nil {
		return f, err
	}
	if f.Year, err = optionalInt(c, "year"); err != nil {
		return f, err
	}
	if f.Month, err = optionalInt(c, "month"); err != nil {
		return f, err
	}
	if raw := c.Query("status"); raw != "" {
		status := models.PaymentStatus(raw)
		if !status.Valid() {
			return f, apperr.InvalidInput("unknown payment status %q", raw)
		}
		f.Status = &status
	}
	return f, nil
}

func (h *handler) listRentPayments(c *gin.Context) {
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
	c.JSON(http.StatusOK, payments)
}

func (h *handler) createRentPayment(c *gin.Context) {
	var in rent.CreatePaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	payment, err := h.svc.Payments.Create(c.Request.Context(), ownerID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *handler) getRentPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	payment, err := h.svc.Payments.Get(c.Request.Context(), ownerID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *handler) updateRentPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in rent.UpdatePaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	payment, err := h.svc.Payments.Update(c.Request.Context(), ownerID(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *handler) updatePaymentStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in rent.StatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	payment, err := h.svc.Payments.UpdateStatus(c.Request.Context(), ownerID(c), id, in, h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *handler) deleteRentPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Payments.Delete(c.Request.Context(), ownerID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
