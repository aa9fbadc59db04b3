package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) exportCSV(c *gin.Context) {
	// buffered so a render failure can still be answered with JSON
	var buf bytes.Buffer
	if err := h.exports.WriteCSV(c.Request.Context(), &buf); err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("jobs-export-%s.csv", h.now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *Handler) createSnapshot(c *gin.Context) {
	snapshot, err := h.exports.CreateSnapshot(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"snapshot": snapshotToResponse(*snapshot)})
}

func (h *Handler) listSnapshots(c *gin.Context) {
	snapshots, err := h.exports.ListSnapshots(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]SnapshotResponse, len(snapshots))
	for i := range snapshots {
		resp[i] = snapshotToResponse(snapshots[i])
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": resp})
}

func (h *Handler) snapshotURL(c *gin.Context) {
	url, expires, err := h.exports.SnapshotURL(c.Request.Context(), c.Query("key"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expiresAt": formatTime(expires)})
}

func (h *Handler) deleteSnapshot(c *gin.Context) {
	key := c.Query("key")
	if err := h.exports.DeleteSnapshot(c.Request.Context(), key); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": key})
}
