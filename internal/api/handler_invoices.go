package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sauna-admin-backend/internal/store"
)

// GetMemberInvoices handles the GET /api/members/{member_id}/invoices
// request.
func (h *Handler) GetMemberInvoices(c *gin.Context) {
	memberID, err := strconv.ParseInt(c.Param("member_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}
	ctx := c.Request.Context()

	if _, err := h.store.Member(ctx, memberID); err != nil {
		if errors.Is(err, store.ErrMemberNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve member"})
		return
	}

	invoices, err := h.store.InvoicesForMember(ctx, memberID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invoices"})
		return
	}

	c.JSON(http.StatusOK, invoices)
}
