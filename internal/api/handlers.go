package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/balkashynov/goalie/internal/db"
)

type handlers struct {
	svc Services
	log *slog.Logger
}

func (h *handlers) routes(e *echo.Echo) {
	e.GET("/healthz", h.health)

	a := e.Group("/auth")
	a.POST("/register", h.register)
	a.POST("/login", h.login)
	a.GET("/me", h.me, h.requireAuth())

	// the goal id is always :id so the router sees one param name per position
	g := e.Group("/goals", h.requireAuth())
	g.GET("", h.listGoals)
	g.POST("", h.createGoal)
	g.GET("/:id", h.getGoal)
	g.PUT("/:id", h.updateGoal)
	g.DELETE("/:id", h.deleteGoal)

	g.POST("/:id/months", h.addMonth)
	g.DELETE("/:id/months/:monthId", h.deleteMonth)
	g.POST("/:id/months/:monthId/tasks", h.addTask)
	g.DELETE("/:id/months/:monthId/tasks/:taskId", h.deleteTask)
	g.PATCH("/:id/tasks/:taskId/toggle", h.toggleTask)

	g.POST("/:id/subgoals", h.addSubGoal)
	g.PATCH("/:id/subgoals/:subGoalId/toggle", h.toggleSubGoal)
	g.DELETE("/:id/subgoals/:subGoalId", h.deleteSubGoal)

	e.GET("/analytics/activity", h.analytics, h.requireAuth())
}

func (h *handlers) health(c echo.Context) error {
	if err := db.Ping(c.Request().Context(), h.svc.DB); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable").SetInternal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Auth

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,notblank,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *registerRequest) normalize() { r.Email = strings.TrimSpace(r.Email) }

func (r *loginRequest) normalize() { r.Email = strings.TrimSpace(r.Email) }

func (h *handlers) register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.svc.Auth.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return serviceError(err, "")
	}
	h.log.Info("user registered", "user_id", resp.User.ID)
	return c.JSON(http.StatusOK, resp)
}

func (h *handlers) login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.svc.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return serviceError(err, "")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *handlers) me(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	user, err := h.svc.Auth.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err, "")
	}
	return c.JSON(http.StatusOK, user)
}

// Goals

type createGoalRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Type        string  `json:"type" validate:"required"`
	Year        *int    `json:"year" validate:"omitempty,min=1,max=9999"`
}

type updateGoalRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type createMonthRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=50"`
	Order int    `json:"order"`
}

type textRequest struct {
	Text string `json:"text" validate:"required,notblank,max=500"`
}

func (h *handlers) listGoals(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	goals, err := h.svc.Goals.ListGoals(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, goals)
}

func (h *handlers) getGoal(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	goalID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	goal, err := h.svc.Goals.GetGoal(c.Request().Context(), goalID, userID)
	if err != nil {
		return serviceError(err, "")
	}
	return c.JSON(http.StatusOK, goal)
}

func (h *handlers) createGoal(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createGoalRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	goal, err := h.svc.Goals.CreateGoal(c.Request().Context(), userID, db.CreateGoalInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Year:        req.Year,
	})
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, "/goals/"+goal.ID.String())
	return c.JSON(http.StatusCreated, goal)
}

func (h *handlers) updateGoal(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	goalID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateGoalRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	goal, err := h.svc.Goals.UpdateGoal(c.Request().Context(), goalID, userID, db.UpdateGoalInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return serviceError(err, "")
	}
	return c.JSON(http.StatusOK, goal)
}

func (h *handlers) deleteGoal(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	goalID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Goals.DeleteGoal(c.Request().Context(), goalID, userID); err != nil {
		return serviceError(err, "")
	}
	return c.NoContent(http.StatusNoContent)
}

// Months and tasks

func (h *handlers) addMonth(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	goalID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req createMonthRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	month, err := h.svc.Goals.AddMonth(c.Request().Context(), goalID, userID, req.Name, req.Order)
	if err != nil {
		return serviceError(err, "Could not add month")
	}
	return c.JSON(http.StatusOK, month)
}

func (h *handlers) deleteMonth(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	ids, err := pathIDs(c, "id", "monthId")
	if err != nil {
		return err
	}
	if err := h.svc.Goals.DeleteMonth(c.Request().Context(), ids[0], ids[1], userID); err != nil {
		return serviceError(err, "")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) addTask(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	ids, err := pathIDs(c, "id", "monthId")
	if err != nil {
		return err
	}
	var req textRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.svc.Goals.AddTask(c.Request().Context(), ids[0], ids[1], userID, req.Text)
	if err != nil {
		return serviceError(err, "Could not add task")
	}
	return c.JSON(http.StatusOK, task)
}

func (h *handlers) toggleTask(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	ids, err := pathIDs(c, "id", "taskId")
	if err != nil {
		return err
	}
	task, err := h.svc.Goals.ToggleTask(c.Request().Context(), ids[0], ids[1], userID)
	if err != nil {
		return serviceError(err, "")
	}
	return c.JSON(http.StatusOK, task)
}

func (h *handlers) deleteTask(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	ids, err := pathIDs(c, "id", "monthId", "taskId")
	if err != nil {
		return err
	}
	if err := h.svc.Goals.DeleteTask(c.Request().Context(), ids[0], ids[1], ids[2], userID); err != nil {
		return serviceError(err, "")
	}
	return c.NoContent(http.StatusNoContent)
}

// Subgoals

func (h *handlers) addSubGoal(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	goalID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req textRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	sub, err := h.svc.Goals.AddSubGoal(c.Request().Context(), goalID, userID, req.Text)
	if err != nil {
		return serviceError(err, "Could not add subgoal")
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *handlers) toggleSubGoal(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	ids, err := pathIDs(c, "id", "subGoalId")
	if err != nil {
		return err
	}
	sub, err := h.svc.Goals.ToggleSubGoal(c.Request().Context(), ids[0], ids[1], userID)
	if err != nil {
		return serviceError(err, "")
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *handlers) deleteSubGoal(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	ids, err := pathIDs(c, "id", "subGoalId")
	if err != nil {
		return err
	}
	if err := h.svc.Goals.DeleteSubGoal(c.Request().Context(), ids[0], ids[1], userID); err != nil {
		return serviceError(err, "")
	}
	return c.NoContent(http.StatusNoContent)
}

// Analytics

func (h *handlers) analytics(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	stats, err := h.svc.Goals.GetAnalytics(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
