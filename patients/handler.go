package patients

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Store is the persistence surface the handler needs; implemented by
// Repository and mocked in tests.
type Store interface {
	All(ctx context.Context) ([]Patient, error)
	Get(ctx context.Context, id int) (*Patient, error)
	Create(ctx context.Context, p Patient) error
	Update(ctx context.Context, p Patient) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
}

type Handler struct {
	store Store
}

func NewHandler(s Store) *Handler { return &Handler{store: s} }

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/patients", h.list)
	r.POST("/api/patients", h.create)
	r.PUT("/api/patients", h.update)
	r.DELETE("/api/patients", h.remove)
}

// list returns all patients, or a one-element array when ?id= is given. The
// array-for-single-lookup shape matches what the dashboard expects.
func (h *Handler) list(c *gin.Context) {
	if raw, ok := c.GetQuery("id"); ok {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id must be numeric"})
			return
		}
		p, err := h.store.Get(c.Request.Context(), id)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusOK, []Patient{})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch patients"})
			return
		}
		c.JSON(http.StatusOK, []Patient{*p})
		return
	}

	list, err := h.store.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch patients"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) create(c *gin.Context) {
	var p Patient
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient payload"})
		return
	}
	if err := h.store.Create(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create patient"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"insertedId": p.ID})
}

func (h *Handler) update(c *gin.Context) {
	var p Patient
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient payload"})
		return
	}
	if p.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id for update"})
		return
	}
	matched, err := h.store.Update(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update patient"})
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete patient"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
}
