package api

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// visitStatsResponse is the aggregate answer for GET /api/stats/visits.
type visitStatsResponse struct {
	Since       time.Time        `json:"since"`
	TotalVisits int64            `json:"total_visits"`
	Members     []memberVisitRow `json:"members"`
}

type memberVisitRow struct {
	MemberID int64 `json:"member_id"`
	Visits   int64 `json:"visits"`
}

// GetVisitStats handles the GET /api/stats/visits request. The window
// defaults to the classifier's activity window.
func (h *Handler) GetVisitStats(c *gin.Context) {
	months := h.classifier.ActiveWindowMonths
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'months' parameter"})
			return
		}
		months = parsed
	}

	since := time.Now().UTC().AddDate(0, -months, 0)
	counts, err := h.store.VisitCounts(c.Request.Context(), since)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate visits"})
		return
	}

	response := visitStatsResponse{Since: since, Members: make([]memberVisitRow, 0, len(counts))}
	for id, total := range counts {
		response.TotalVisits += total
		response.Members = append(response.Members, memberVisitRow{MemberID: id, Visits: total})
	}
	sort.Slice(response.Members, func(i, j int) bool {
		if response.Members[i].Visits != response.Members[j].Visits {
			return response.Members[i].Visits > response.Members[j].Visits
		}
		return response.Members[i].MemberID < response.Members[j].MemberID
	})

	c.JSON(http.StatusOK, response)
}
