package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"workhive-api/internal/apperr"
	"workhive-api/internal/middleware"
	"workhive-api/internal/models"
	"workhive-api/internal/realtime"
	"workhive-api/internal/stats"
)

// TaskHandler serves the task lifecycle and dashboard endpoints.
type TaskHandler struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewTaskHandler(db *gorm.DB, hub *realtime.Hub) *TaskHandler {
	return &TaskHandler{DB: db, Hub: hub}
}

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title         string              `json:"title" binding:"required"`
	Description   string              `json:"description" binding:"required"`
	Priority      models.TaskPriority `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	DueDate       time.Time           `json:"dueDate" binding:"required"`
	AssignedTo    []string            `json:"assignedTo" binding:"required,min=1"`
	TodoChecklist []models.TodoItem   `json:"todoChecklist" binding:"required,min=1"`
	Attachments   []string            `json:"attachments"`
}

// UpdateTaskRequest represents the request payload for updating a task.
// Status is deliberately absent: it is derived from the checklist and
// cannot be written directly.
type UpdateTaskRequest struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	Priority      *models.TaskPriority `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	DueDate       *time.Time           `json:"dueDate"`
	AssignedTo    *[]string            `json:"assignedTo"`
	TodoChecklist *[]models.TodoItem   `json:"todoChecklist"`
	Attachments   *[]string            `json:"attachments"`
}

// UpdateChecklistRequest carries completion flags for existing checklist items.
type UpdateChecklistRequest struct {
	TodoChecklist []models.TodoItem `json:"todoChecklist" binding:"required"`
}

// TaskResponse is a task with its weak assignee references resolved to
// display data. Assignees whose user record is gone are skipped.
type TaskResponse struct {
	models.Task
	AssignedTo         []models.AssigneeInfo `json:"assignedTo"`
	CompletedTodoCount int                   `json:"completedTodoCount"`
}

// resolveAssignees loads the referenced users for a set of tasks in one
// query and maps each task to its response form.
func (h *TaskHandler) resolveAssignees(tasks []models.Task) ([]TaskResponse, error) {
	idSet := make(map[string]struct{})
	for _, t := range tasks {
		for _, id := range t.AssignedTo {
			idSet[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	userByID := make(map[string]models.User, len(ids))
	if len(ids) > 0 {
		var users []models.User
		if err := h.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			userByID[u.ID] = u
		}
	}

	resp := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		assignees := make([]models.AssigneeInfo, 0, len(t.AssignedTo))
		for _, id := range t.AssignedTo {
			if u, ok := userByID[id]; ok {
				assignees = append(assignees, u.Info())
			}
		}
		resp = append(resp, TaskResponse{
			Task:               t,
			AssignedTo:         assignees,
			CompletedTodoCount: t.CompletedTodoCount(),
		})
	}
	return resp, nil
}

// scopeUserID returns the assignment scope for aggregation and listing:
// members see only their own tasks, admins everything.
func scopeUserID(c *gin.Context) string {
	if models.UserRole(c.GetString(middleware.ContextRole)) == models.RoleAdmin {
		return ""
	}
	return c.GetString(middleware.ContextUserID)
}

// CreateTask handles POST /api/tasks/create (admin only)
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(err.Error()))
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	// All checklist items start incomplete regardless of client flags.
	checklist := make(models.TodoChecklist, 0, len(req.TodoChecklist))
	for _, item := range req.TodoChecklist {
		checklist = append(checklist, models.TodoItem{Text: item.Text})
	}

	task := models.Task{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		Priority:      priority,
		DueDate:       req.DueDate,
		AssignedTo:    models.StringList(req.AssignedTo),
		TodoChecklist: checklist,
		Attachments:   models.StringList(req.Attachments),
		CreatedBy:     c.GetString(middleware.ContextUserID),
	}
	task.Recompute()

	if err := h.DB.Create(&task).Error; err != nil {
		respondError(c, storeError(err, "Task not found"))
		return
	}

	h.Hub.Notify(task.AssignedTo, "task_created", task.ID)

	c.JSON(http.StatusCreated, task)
}

// GetTasks handles GET /api/tasks
// Returns tasks in the caller's scope, newest first, each annotated with
// resolved assignees and completed checklist count, plus a status summary
// for the same scope. Optional query param: status.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	scope := scopeUserID(c)

	query := h.DB.Model(&models.Task{})
	if scope != "" {
		query = query.Where("assigned_to LIKE ?", `%"`+scope+`"%`)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []models.Task
	if err := query.Order("created_at desc, id").Find(&tasks).Error; err != nil {
		respondError(c, storeError(err, "Tasks not found"))
		return
	}

	resp, err := h.resolveAssignees(tasks)
	if err != nil {
		respondError(c, storeError(err, "Tasks not found"))
		return
	}

	summary, err := stats.Summary(h.DB, scope)
	if err != nil {
		respondError(c, storeError(err, "Tasks not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":         resp,
		"count":         len(resp),
		"statusSummary": summary,
	})
}

// GetTaskByID handles GET /api/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	var task models.Task
	if err := h.DB.Where("id = ?", c.Param("id")).First(&task).Error; err != nil {
		respondError(c, storeError(err, "Task not found"))
		return
	}

	resp, err := h.resolveAssignees([]models.Task{task})
	if err != nil {
		respondError(c, storeError(err, "Task not found"))
		return
	}

	c.JSON(http.StatusOK, resp[0])
}

// UpdateTask handles PUT /api/tasks/:id (admin only)
// Merges the patch into the task. A replaced checklist keeps the
// completion flag of items whose text is unchanged; progress and status
// are recomputed afterwards.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var task models.Task
	if err := h.DB.Where("id = ?", c.Param("id")).First(&task).Error; err != nil {
		respondError(c, storeError(err, "Task not found"))
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(err.Error()))
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if req.AssignedTo != nil {
		if len(*req.AssignedTo) == 0 {
			respondError(c, apperr.Validation("Task must be assigned to at least one member"))
			return
		}
		task.AssignedTo = models.StringList(*req.AssignedTo)
	}
	if req.Attachments != nil {
		task.Attachments = models.StringList(*req.Attachments)
	}
	if req.TodoChecklist != nil {
		task.MergeChecklist(*req.TodoChecklist)
	}
	task.Recompute()

	if err := h.DB.Save(&task).Error; err != nil {
		respondError(c, storeError(err, "Task not found"))
		return
	}

	h.Hub.Notify(task.AssignedTo, "task_updated", task.ID)

	resp, err := h.resolveAssignees([]models.Task{task})
	if err != nil {
		respondError(c, storeError(err, "Task not found"))
		return
	}
	c.JSON(http.StatusOK, resp[0])
}

// UpdateTaskChecklist handles PUT /api/tasks/:id/todo
// Lets an assignee (or an admin) flip completion flags on the existing
// checklist. Items are matched by text; the request cannot add, remove or
// rename items. This is the only way a task reaches Completed.
func (h *TaskHandler) UpdateTaskChecklist(c *gin.Context) {
	var task models.Task
	if err := h.DB.Where("id = ?", c.Param("id")).First(&task).Error; err != nil {
		respondError(c, storeError(err, "Task not found"))
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	role := models.UserRole(c.GetString(middleware.ContextRole))
	if role != models.RoleAdmin && !contains(task.AssignedTo, userID) {
		respondError(c, apperr.Forbidden("Not authorized to update this task"))
		return
	}

	var req UpdateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(err.Error()))
		return
	}

	completedByText := make(map[string]bool, len(req.TodoChecklist))
	for _, item := range req.TodoChecklist {
		completedByText[item.Text] = item.Completed
	}
	for i, item := range task.TodoChecklist {
		if completed, ok := completedByText[item.Text]; ok {
			task.TodoChecklist[i].Completed = completed
		}
	}
	task.Recompute()

	if err := h.DB.Save(&task).Error; err != nil {
		respondError(c, storeError(err, "Task not found"))
		return
	}

	h.Hub.Notify(task.AssignedTo, "task_status_changed", task.ID)

	resp, err := h.resolveAssignees([]models.Task{task})
	if err != nil {
		respondError(c, storeError(err, "Task not found"))
		return
	}
	c.JSON(http.StatusOK, resp[0])
}

// DeleteTask handles DELETE /api/tasks/:id (admin only)
// Assignments and attachment references live inside the task document, so
// deleting it needs no cascading cleanup.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	var task models.Task
	if err := h.DB.Where("id = ?", c.Param("id")).First(&task).Error; err != nil {
		respondError(c, storeError(err, "Task not found"))
		return
	}

	if err := h.DB.Delete(&task).Error; err != nil {
		respondError(c, storeError(err, "Task not found"))
		return
	}

	h.Hub.Notify(task.AssignedTo, "task_deleted", task.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      task.ID,
	})
}

// dashboardData builds the dashboard payload for a scope. Everything is a
// snapshot computed at call time by re-scanning the task store.
func (h *TaskHandler) dashboardData(scope string) (gin.H, error) {
	statistics, err := stats.Dashboard(h.DB, scope)
	if err != nil {
		return nil, err
	}
	taskDistribution, err := stats.StatusDistribution(h.DB, scope)
	if err != nil {
		return nil, err
	}
	priorityLevels, err := stats.PriorityDistribution(h.DB, scope)
	if err != nil {
		return nil, err
	}
	recent, err := stats.RecentTasks(h.DB, scope, 10)
	if err != nil {
		return nil, err
	}
	recentResp, err := h.resolveAssignees(recent)
	if err != nil {
		return nil, err
	}

	return gin.H{
		"statistics": statistics,
		"charts": gin.H{
			"taskDistribution":   taskDistribution,
			"taskPriorityLevels": priorityLevels,
		},
		"recentTasks": recentResp,
	}, nil
}

// GetDashboardData handles GET /api/tasks/dashboard-data (admin only)
func (h *TaskHandler) GetDashboardData(c *gin.Context) {
	data, err := h.dashboardData("")
	if err != nil {
		respondError(c, storeError(err, "Tasks not found"))
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetUserDashboardData handles GET /api/tasks/user-dashboard-data
// Same payload as the admin dashboard, scoped to the caller's assignments.
func (h *TaskHandler) GetUserDashboardData(c *gin.Context) {
	data, err := h.dashboardData(c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, storeError(err, "Tasks not found"))
		return
	}
	c.JSON(http.StatusOK, data)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
