package records

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Store is the persistence surface the handler needs; implemented by
// Repository and mocked in tests.
type Store interface {
	All(ctx context.Context) ([]Record, error)
	ByPatient(ctx context.Context, patientID int) ([]Record, error)
	Create(ctx context.Context, rec Record) (int64, error)
	Update(ctx context.Context, rec Record) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
}

type Handler struct {
	store Store
}

func NewHandler(s Store) *Handler { return &Handler{store: s} }

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/records", h.list)
	r.POST("/api/records", h.create)
	r.PUT("/api/records", h.update)
	r.DELETE("/api/records", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	if raw, ok := c.GetQuery("patientId"); ok {
		pid, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "patientId must be numeric"})
			return
		}
		list, err := h.store.ByPatient(c.Request.Context(), pid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch records"})
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	list, err := h.store.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch records"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) create(c *gin.Context) {
	var rec Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record payload"})
		return
	}
	id, err := h.store.Create(c.Request.Context(), rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create record"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"insertedId": id})
}

func (h *Handler) update(c *gin.Context) {
	var rec Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record payload"})
		return
	}
	if rec.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id for update"})
		return
	}
	matched, err := h.store.Update(c.Request.Context(), rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matchedCount": matched, "modifiedCount": matched})
}

func (h *Handler) remove(c *gin.Context) {
	raw, ok := c.GetQuery("id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id for delete"})
		return
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be numeric"})
		return
	}
	deleted, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
}
