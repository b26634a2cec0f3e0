// Package stats is the aggregation engine. Every figure is recomputed
// from the task store on each call; there are no maintained counters, so
// the numbers can never drift from the authoritative status fields.
package stats

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"workhive-api/internal/models"
)

// StatusCounts holds per-status task counts for one user.
type StatusCounts struct {
	Pending    int64 `json:"pendingTasks"`
	InProgress int64 `json:"inProgressTasks"`
	Completed  int64 `json:"completedTasks"`
}

// StatusSummary holds the status-tab counts for a listing scope.
type StatusSummary struct {
	All        int64 `json:"all"`
	Pending    int64 `json:"pendingTasks"`
	InProgress int64 `json:"inProgressTasks"`
	Completed  int64 `json:"completedTasks"`
}

// Statistics is the dashboard/report snapshot.
type Statistics struct {
	TotalTasks     int64 `json:"totalTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
}

// assignedScope narrows a task query to tasks assigned to the given user.
// AssignedTo is a JSON array column of quoted ids, so a quoted LIKE match
// selects exactly the tasks referencing the id. Unknown users simply
// match nothing, which yields the zero counts the callers expect.
func assignedScope(query *gorm.DB, userID string) *gorm.DB {
	if userID == "" {
		return query
	}
	return query.Where("assigned_to LIKE ?", fmt.Sprintf(`%%"%s"%%`, userID))
}

// PerUserStatusCounts returns the three status counts over tasks assigned
// to userID, in a single group-by scan.
func PerUserStatusCounts(db *gorm.DB, userID string) (StatusCounts, error) {
	type row struct {
		Status models.TaskStatus
		Count  int64
	}

	var rows []row
	err := assignedScope(db.Model(&models.Task{}), userID).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return StatusCounts{}, err
	}

	var counts StatusCounts
	for _, r := range rows {
		switch r.Status {
		case models.StatusPending:
			counts.Pending = r.Count
		case models.StatusInProgress:
			counts.InProgress = r.Count
		case models.StatusCompleted:
			counts.Completed = r.Count
		}
	}
	return counts, nil
}

// Summary returns the status-tab counts. An empty scopeUserID means the
// global (admin) scope; otherwise counts cover only tasks assigned to
// that user.
func Summary(db *gorm.DB, scopeUserID string) (StatusSummary, error) {
	counts, err := PerUserStatusCounts(db, scopeUserID)
	if err != nil {
		return StatusSummary{}, err
	}
	return StatusSummary{
		All:        counts.Pending + counts.InProgress + counts.Completed,
		Pending:    counts.Pending,
		InProgress: counts.InProgress,
		Completed:  counts.Completed,
	}, nil
}

// Dashboard returns the snapshot statistics for the given scope. Overdue
// tasks are those past their due date and not yet Completed.
func Dashboard(db *gorm.DB, scopeUserID string) (Statistics, error) {
	summary, err := Summary(db, scopeUserID)
	if err != nil {
		return Statistics{}, err
	}

	var overdue int64
	err = assignedScope(db.Model(&models.Task{}), scopeUserID).
		Where("due_date < ? AND status != ?", time.Now(), models.StatusCompleted).
		Count(&overdue).Error
	if err != nil {
		return Statistics{}, err
	}

	return Statistics{
		TotalTasks:     summary.All,
		PendingTasks:   summary.Pending,
		CompletedTasks: summary.Completed,
		OverdueTasks:   overdue,
	}, nil
}

// StatusDistribution returns task counts keyed by status, with every
// status present even when zero.
func StatusDistribution(db *gorm.DB, scopeUserID string) (map[string]int64, error) {
	counts, err := PerUserStatusCounts(db, scopeUserID)
	if err != nil {
		return nil, err
	}
	return map[string]int64{
		string(models.StatusPending):    counts.Pending,
		string(models.StatusInProgress): counts.InProgress,
		string(models.StatusCompleted):  counts.Completed,
		"All":                           counts.Pending + counts.InProgress + counts.Completed,
	}, nil
}

// PriorityDistribution returns task counts keyed by priority, with every
// priority present even when zero.
func PriorityDistribution(db *gorm.DB, scopeUserID string) (map[string]int64, error) {
	type row struct {
		Priority models.TaskPriority
		Count    int64
	}

	var rows []row
	err := assignedScope(db.Model(&models.Task{}), scopeUserID).
		Select("priority, COUNT(*) as count").
		Group("priority").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	dist := map[string]int64{
		string(models.PriorityLow):    0,
		string(models.PriorityMedium): 0,
		string(models.PriorityHigh):   0,
	}
	for _, r := range rows {
		dist[string(r.Priority)] = r.Count
	}
	return dist, nil
}

// RecentTasks returns the most recently created tasks in the scope, newest
// first. The id tiebreaker keeps the order deterministic for tasks created
// within the same timestamp.
func RecentTasks(db *gorm.DB, scopeUserID string, limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := assignedScope(db.Model(&models.Task{}), scopeUserID).
		Order("created_at desc, id").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}
