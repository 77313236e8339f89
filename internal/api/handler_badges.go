package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"sauna-admin-backend/internal/badge"
	"sauna-admin-backend/internal/model"
	"sauna-admin-backend/internal/store"
)

// earnedBadgeResponse decorates an earned badge with its catalog metadata.
type earnedBadgeResponse struct {
	badge.Badge
	EarnedAt time.Time `json:"earned_at"`
}

// decorateBadges resolves earned badge rows against the catalog and orders
// them for display: by category, then by descending sort weight. Unknown
// codes resolve to the catalog's fallback record rather than being
// dropped.
func decorateBadges(earned []model.MemberBadge) []earnedBadgeResponse {
	out := make([]earnedBadgeResponse, 0, len(earned))
	for _, e := range earned {
		out = append(out, earnedBadgeResponse{
			Badge:    badge.Lookup(e.Code),
			EarnedAt: e.EarnedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].SortWeight > out[j].SortWeight
	})
	return out
}

// GetBadgeCatalog handles the GET /api/badges request.
func (h *Handler) GetBadgeCatalog(c *gin.Context) {
	dynamicOnly, _ := strconv.ParseBool(c.Query("dynamic"))

	if cat := c.Query("category"); cat != "" {
		badges := badge.ByCategory(badge.Category(cat))
		if dynamicOnly {
			filtered := badges[:0]
			for _, b := range badges {
				if b.Dynamic {
					filtered = append(filtered, b)
				}
			}
			badges = filtered
		}
		c.JSON(http.StatusOK, badges)
		return
	}

	c.JSON(http.StatusOK, badge.All(dynamicOnly))
}

// GetMemberBadges handles the GET /api/members/{member_id}/badges request.
func (h *Handler) GetMemberBadges(c *gin.Context) {
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

	earned, err := h.store.MemberBadges(ctx, memberID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve badges"})
		return
	}

	c.JSON(http.StatusOK, decorateBadges(earned))
}
