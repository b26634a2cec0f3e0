package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"workhive-api/internal/models"
	"workhive-api/internal/stats"
)

// UserHandler serves the member directory.
type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// MemberResponse is a member with their task status counts attached.
type MemberResponse struct {
	models.AssigneeInfo
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

// GetMembers handles GET /api/users/get-users (admin only)
// Lists members annotated with per-status task counts, recomputed from the
// task store on each call.
func (h *UserHandler) GetMembers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Where("role = ?", models.RoleMember).Find(&users).Error; err != nil {
		respondError(c, storeError(err, "Users not found"))
		return
	}

	members := make([]MemberResponse, 0, len(users))
	for _, u := range users {
		counts, err := stats.PerUserStatusCounts(h.DB, u.ID)
		if err != nil {
			respondError(c, storeError(err, "Users not found"))
			return
		}
		members = append(members, MemberResponse{
			AssigneeInfo:    u.Info(),
			PendingTasks:    counts.Pending,
			InProgressTasks: counts.InProgress,
			CompletedTasks:  counts.Completed,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   members,
		"count":   len(members),
	})
}

// GetUserByID handles GET /api/users/:id
func (h *UserHandler) GetUserByID(c *gin.Context) {
	var user models.User
	if err := h.DB.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		respondError(c, storeError(err, "User not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
