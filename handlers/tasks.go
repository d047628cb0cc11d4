package handlers

import (
	"net/http"
	"strconv"
	"time"

	"neighborly/models"
	"neighborly/services/tasks"

	"github.com/gin-gonic/gin"
)

// TaskHandler serves the browse, post and accept screens.
type TaskHandler struct {
	Service tasks.TaskService
}

func NewTaskHandler(svc tasks.TaskService) *TaskHandler {
	return &TaskHandler{Service: svc}
}

// taskFilterFromQuery reads ?category=&status=&q=&minBudget=&maxBudget=&lat=&lng=&radiusKm=&sort=.
func taskFilterFromQuery(c *gin.Context) (models.TaskFilter, error) {
	f := models.TaskFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Query:    c.Query("q"),
		Sort:     tasks.ParseSort(c.Query("sort")),
	}
	floatParam := func(name string) (float64, error) {
		v := c.Query(name)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, &models.FormError{Field: name, Message: name + " must be a number"}
		}
		return n, nil
	}

	var err error
	if f.MinBudget, err = floatParam("minBudget"); err != nil {
		return f, err
	}
	if f.MaxBudget, err = floatParam("maxBudget"); err != nil {
		return f, err
	}
	if f.RadiusKm, err = floatParam("radiusKm"); err != nil {
		return f, err
	}
	if c.Query("lat") != "" || c.Query("lng") != "" {
		lat, err := floatParam("lat")
		if err != nil {
			return f, err
		}
		lng, err := floatParam("lng")
		if err != nil {
			return f, err
		}
		f.Near = &models.Location{Lat: lat, Lng: lng}
	}
	return f, nil
}

func (h *TaskHandler) List(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	filter, err := taskFilterFromQuery(c)
	if err != nil {
		respondError(c, err, "Invalid filter")
		return
	}
	list, err := h.Service.List(c.Request.Context(), appCtx, filter)
	if err != nil {
		respondError(c, err, "Failed to fetch tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": list, "count": len(list)})
}

func (h *TaskHandler) Get(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	task, err := h.Service.Get(c.Request.Context(), appCtx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskHandler) Post(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	var body struct {
		Title       string           `json:"title"`
		Description string           `json:"description"`
		Category    string           `json:"category"`
		Budget      float64          `json:"budget"`
		Location    *models.Location `json:"location"`
		DueAt       *time.Time       `json:"dueAt"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	b := models.NewTaskForm(body.Title).
		WithDescription(body.Description).
		WithCategory(body.Category).
		WithBudget(body.Budget).
		WithLocation(body.Location)
	if body.DueAt != nil {
		b = b.WithDueAt(*body.DueAt)
	}
	form, err := b.Build()
	if err != nil {
		respondError(c, err, "Invalid task")
		return
	}

	task, err := h.Service.Post(c.Request.Context(), appCtx, form)
	if err != nil {
		respondError(c, err, "Failed to post task")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *TaskHandler) Accept(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	task, err := h.Service.Accept(c.Request.Context(), appCtx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to accept task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task, "message": "Task accepted"})
}
