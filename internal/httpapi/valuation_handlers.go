package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentfolio/internal/valuation"
)

func (h *handler) calculateValuation(c *gin.Context) {
	var in valuation.CalculateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.svc.Valuations.Calculate(c.Request.Context(), ownerID(c), in, h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *handler) listValuations(c *gin.Context) {
	propertyID, err := optionalUint(c, "propertyId")
	if err != nil {
		h.fail(c, err)
		return
	}

	valuations, err := h.svc.Valuations.List(c.Request.Context(), ownerID(c), propertyID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, valuations)
}

func (h *handler) getValuation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	v, err := h.svc.Valuations.Get(c.Request.Context(), ownerID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *handler) deleteValuation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Valuations.Delete(c.Request.Context(), ownerID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) portfolioSummary(c *gin.Context) {
	summary, err := h.svc.Portfolio.Summary(c.Request.Context(), ownerID(c), h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *handler) propertySummary(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	summary, err := h.svc.Valuations.PropertySummary(c.Request.Context(), ownerID(c), id, h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// expenseSummary breaks down one year of expenses, the current year unless
// ?year is given.
func (h *handler) expenseSummary(c *gin.Context) {
	year, err := optionalInt(c, "year")
	if err != nil {
		h.fail(c, err)
		return
	}
	propertyID, err := optionalUint(c, "propertyId")
	if err != nil {
		h.fail(c, err)
		return
	}
	y := h.now().Year()
	if year != nil {
		y = *year
	}

	breakdown, err := h.svc.Portfolio.ExpenseBreakdown(c.Request.Context(), ownerID(c), y, propertyID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}
