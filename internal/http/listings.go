package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard/internal/domain"
)

func (h *Handler) listPublicListings(c *gin.Context) {
	h.listListings(c, domain.ScopePublic)
}

func (h *Handler) listAdminListings(c *gin.Context) {
	h.listListings(c, domain.ScopeAll)
}

func (h *Handler) listListings(c *gin.Context, scope domain.ListingScope) {
	filter := domain.ListingFilter{
		Search:     c.Query("search"),
		Location:   c.Query("location"),
		Type:       domain.JobType(strings.TrimSpace(firstQuery(c, "type", "jobType"))),
		Experience: c.Query("experience"),
		Scope:      scope,
	}
	if scope == domain.ScopeAll {
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			switch st := domain.ListingStatus(strings.ToLower(status)); st {
			case domain.ListingStatusActive, domain.ListingStatusExpired, domain.ListingStatusInactive:
				filter.Status = st
			default:
				writeError(c, http.StatusBadRequest, "status must be one of active, expired, inactive")
				return
			}
		}
	}

	page := queryInt(c, "page")
	pageSize := queryInt(c, "pageSize", "limit")

	result, err := h.listings.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageToResponse(result, h.now()))
}

func (h *Handler) getListing(c *gin.Context) {
	listing, err := h.listings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": listingToResponse(*listing, h.now())})
}

func (h *Handler) createListing(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	admin := currentAdmin(c)
	listing, err := h.listings.Create(c.Request.Context(), admin.ID, req.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "job created successfully",
		"job":     listingToResponse(*listing, h.now()),
	})
}

func (h *Handler) updateListing(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	listing, err := h.listings.Update(c.Request.Context(), c.Param("id"), req.toPatch())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "job updated successfully",
		"job":     listingToResponse(*listing, h.now()),
	})
}

func (h *Handler) deleteListing(c *gin.Context) {
	id := c.Param("id")
	if err := h.listings.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "job deleted successfully", "deleted": id})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.listings.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StatsResponse{
		TotalJobs:    stats.Total,
		ActiveJobs:   stats.Active,
		ExpiredJobs:  stats.Expired,
		InactiveJobs: stats.Inactive,
		TotalViews:   stats.TotalViews,
	})
}

// queryInt returns the first parsable value among the given keys, or 0.
func queryInt(c *gin.Context, keys ...string) int {
	for _, key := range keys {
		raw := strings.TrimSpace(c.Query(key))
		if raw == "" {
			continue
		}
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return 0
}

func firstQuery(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if v := c.Query(key); v != "" {
			return v
		}
	}
	return ""
}
