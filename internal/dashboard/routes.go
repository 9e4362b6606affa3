package dashboard

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/lock"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/plant"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/schedule"
)

// api carries the handler dependencies.
type api struct {
	opts StartOpts
}

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, a *api) {
	router.GET("/healthz", a.handleHealth)

	g := router.Group("/api")
	g.GET("/overview", a.handleOverview)
	g.GET("/schedule", a.handleSchedule)
	g.POST("/schedule/regenerate", a.handleRegenerate)
	g.POST("/schedule/items/:id/progress", a.handleProgress)
	g.GET("/conflicts", a.handleConflicts)
	g.GET("/orders", a.handleOrders)
	g.GET("/machines/:id/capacity", a.handleCapacity)
	g.POST("/feasibility", a.handleFeasibility)
	g.GET("/events", a.handleEvents)
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func notFound(err error) bool {
	return errors.Is(err, plant.ErrNotFound)
}

func (a *api) handleHealth(c *gin.Context) {
	sqlDB, err := a.opts.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		abort(c, http.StatusServiceUnavailable, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *api) handleOverview(c *gin.Context) {
	ov, err := GetOverview(a.opts.DB)
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

func (a *api) handleSchedule(c *gin.Context) {
	items, err := schedule.CurrentSchedule(a.opts.DB, a.opts.Location, a.opts.Now())
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	if machine := c.Query("machine_id"); machine != "" {
		filtered := items[:0]
		for _, it := range items {
			if it.MachineID == machine {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}
	run, err := schedule.LatestRun(a.opts.DB)
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "schedule": items})
}

func (a *api) handleRegenerate(c *gin.Context) {
	apply, err := strconv.ParseBool(c.DefaultQuery("apply", "false"))
	if err != nil {
		abort(c, http.StatusBadRequest, errors.New("apply must be a boolean"))
		return
	}
	res, err := schedule.Regenerate(c.Request.Context(), a.opts.DB, a.opts.Locker, schedule.RegenerateOpts{
		Apply:    apply,
		Trigger:  schedule.TriggerAPI,
		Now:      a.opts.Now(),
		Location: a.opts.Location,
		Logger:   a.opts.Logger,
	})
	switch {
	case errors.Is(err, lock.ErrNotObtained), errors.Is(err, schedule.ErrVersionConflict):
		abort(c, http.StatusConflict, err)
		return
	case err != nil:
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type progressRequest struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

func (a *api) handleProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	item, err := plant.RecordProgress(a.opts.DB, c.Param("id"), plant.ProgressOpts{Start: req.Start, End: req.End})
	if err != nil {
		status := http.StatusBadRequest
		if notFound(err) {
			status = http.StatusNotFound
		}
		abort(c, status, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (a *api) handleConflicts(c *gin.Context) {
	conflicts, err := schedule.CurrentConflicts(a.opts.DB)
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conflicts": conflicts})
}

func (a *api) handleOrders(c *gin.Context) {
	filters := plant.OrderFilters{
		Status:    models.OrderStatus(c.Query("status")),
		Priority:  models.Priority(c.Query("priority")),
		ProductID: c.Query("product_id"),
	}
	views, err := schedule.CurrentOrders(a.opts.DB, filters, a.opts.Location, a.opts.Now())
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}

func (a *api) handleCapacity(c *gin.Context) {
	today := a.opts.Now().In(a.opts.Location)
	from := c.DefaultQuery("from", today.AddDate(0, 0, -1).Format(models.DateLayout))
	to := c.DefaultQuery("to", today.AddDate(0, 0, 7).Format(models.DateLayout))

	rep, err := schedule.MachineLoad(a.opts.DB, c.Param("id"), from, to, a.opts.Location)
	if err != nil {
		status := http.StatusBadRequest
		if notFound(err) {
			status = http.StatusNotFound
		}
		abort(c, status, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// feasibilityRequest checks either a stored order (OrderID) or a
// hypothetical one described by the remaining fields.
type feasibilityRequest struct {
	OrderID      string `json:"order_id"`
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	PODate       string `json:"po_date"`
	DeliveryDate string `json:"delivery_date"`
}

func (a *api) handleFeasibility(c *gin.Context) {
	var req feasibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	order := models.PurchaseOrder{
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		PODate:       req.PODate,
		DeliveryDate: req.DeliveryDate,
	}
	if req.OrderID != "" {
		o, err := plant.GetOrder(a.opts.DB, req.OrderID)
		if err != nil {
			status := http.StatusInternalServerError
			if notFound(err) {
				status = http.StatusNotFound
			}
			abort(c, status, err)
			return
		}
		order = *o
	}
	if order.PODate == "" {
		order.PODate = a.opts.Now().In(a.opts.Location).Format(models.DateLayout)
	}

	res, err := schedule.CheckOrder(a.opts.DB, order, a.opts.feasibilityOpts())
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
