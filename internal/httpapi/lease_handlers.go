package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentfolio/internal/leasing"
	"rentfolio/internal/models"
)

type leaseStatusInput struct {
	Status models.LeaseStatus `json:"status" binding:"required"`
}

func (h *handler) createLease(c *gin.Context) {
	var in leasing.CreateLeaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	lease, err := h.svc.Leasing.CreateLease(c.Request.Context(), ownerID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, lease)
}

func (h *handler) updateLease(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in leasing.UpdateLeaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	lease, err := h.svc.Leasing.UpdateLease(c.Request.Context(), ownerID(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lease)
}

func (h *handler) updateLeaseStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in leaseStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	lease, err := h.svc.Leasing.ChangeLeaseStatus(c.Request.Context(), ownerID(c), id, in.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lease)
}

func (h *handler) renewLease(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in leasing.RenewLeaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	lease, err := h.svc.Leasing.RenewLease(c.Request.Context(), ownerID(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, lease)
}

func (h *handler) deleteLease(c *gin.Context) {
	h.deleteBy(c, h.svc.Leasing.DeleteLease)
}

func (h *handler) deleteProperty(c *gin.Context) {
	h.deleteBy(c, h.svc.Leasing.DeleteProperty)
}

func (h *handler) deleteTenant(c *gin.Context) {
	h.deleteBy(c, h.svc.Leasing.DeleteTenant)
}
