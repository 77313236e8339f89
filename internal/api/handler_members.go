package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"sauna-admin-backend/internal/classify"
	"sauna-admin-backend/internal/model"
	"sauna-admin-backend/internal/store"
)

// memberSummaryResponse is one roster row with the derived category.
type memberSummaryResponse struct {
	model.Member
	Category    classify.Category `json:"category"`
	IsActive    bool              `json:"is_active"`
	LastVisitAt *time.Time        `json:"last_visit_at,omitempty"`
}

// memberDetailResponse is the full view of one member.
type memberDetailResponse struct {
	model.Member
	Category classify.Category     `json:"category"`
	IsActive bool                  `json:"is_active"`
	Facts    classify.MemberFacts  `json:"facts"`
	Badges   []earnedBadgeResponse `json:"badges"`
}

// GetMembers handles the GET /api/members request.
func (h *Handler) GetMembers(c *gin.Context) {
	roster, err := h.store.Roster(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	asOf := time.Now().UTC()
	response := make([]memberSummaryResponse, 0, len(roster))
	for _, snapshot := range roster {
		response = append(response, memberSummaryResponse{
			Member:      snapshot.Member,
			Category:    h.classifier.Classify(snapshot.Facts, asOf),
			IsActive:    h.classifier.IsActive(snapshot.Facts, asOf),
			LastVisitAt: snapshot.Facts.LastVisitAt,
		})
	}

	c.JSON(http.StatusOK, response)
}

// GetMember handles the GET /api/members/{member_id} request.
func (h *Handler) GetMember(c *gin.Context) {
	memberID, err := strconv.ParseInt(c.Param("member_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}
	ctx := c.Request.Context()

	member, err := h.store.Member(ctx, memberID)
	if errors.Is(err, store.ErrMemberNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve member"})
		return
	}

	facts, err := h.store.MemberFacts(ctx, memberID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to assemble member facts"})
		return
	}

	earned, err := h.store.MemberBadges(ctx, memberID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve badges"})
		return
	}

	asOf := time.Now().UTC()
	c.JSON(http.StatusOK, memberDetailResponse{
		Member:   member,
		Category: h.classifier.Classify(facts, asOf),
		IsActive: h.classifier.IsActive(facts, asOf),
		Facts:    facts,
		Badges:   decorateBadges(earned),
	})
}
