package transport

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/service"
	"github.com/nhle/project-dashboard/internal/store"
)

// DashboardService is the set of use cases the API exposes.
type DashboardService interface {
	ListProjects(ctx context.Context, filter store.ProjectFilter) ([]model.Project, int, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	CreateProject(ctx context.Context, p model.Project) (*model.Project, error)
	UpdateProject(ctx context.Context, id string, p model.Project) (*model.Project, error)
	DeleteProject(ctx context.Context, id string) error
	Stats(ctx context.Context) (model.ProjectStats, error)
	Notifications(ctx context.Context) (service.NotificationList, error)
	Acknowledge(id string) error
	AcknowledgeAll() int
}

// Handler serves the project and notification endpoints.
type Handler struct {
	svc DashboardService
}

func NewHandler(svc DashboardService) *Handler {
	return &Handler{svc: svc}
}

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case model.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, service.ErrUnknownNotification):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

func (h *Handler) ListProjects(c *gin.Context) {
	filter := store.ProjectFilter{
		Query:  c.Query("search"),
		Status: c.Query("status"),
		SortBy: c.Query("sort"),
	}
	if c.Query("order") == "desc" {
		filter.SortDesc = true
	}

	projects, count, err := h.svc.ListProjects(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"count":    count,
	})
}

func (h *Handler) GetProject(c *gin.Context) {
	project, err := h.svc.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req model.Project
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.svc.CreateProject(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	var req model.Project
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.svc.UpdateProject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.svc.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetNotifications(c *gin.Context) {
	list, err := h.svc.Notifications(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	warnings := make([]string, 0, len(list.Problems))
	for _, p := range list.Problems {
		warnings = append(warnings, p.Error())
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": list.Entries,
		"count":         len(list.Entries),
		"unread":        list.Unread,
		"warnings":      warnings,
	})
}

func (h *Handler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Acknowledge(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "read": true})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"acknowledged": h.svc.AcknowledgeAll()})
}
