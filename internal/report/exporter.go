// Package report serializes aggregate data to downloadable spreadsheets.
// The core aggregation is agnostic to this format; the exporter only
// consumes what the stats package and the stores expose.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"workhive-api/internal/cache"
	"workhive-api/internal/models"
	"workhive-api/internal/stats"
)

// Generated workbooks are cached briefly so repeated downloads do not
// re-scan the store. Export freshness is not correctness-critical.
const reportTTL = 30 * time.Second

const sheet = "Sheet1"

// Exporter builds xlsx workbooks from the task and user collections.
type Exporter struct {
	db    *gorm.DB
	cache *cache.TTLCache[string, []byte]
}

func NewExporter(db *gorm.DB) *Exporter {
	return &Exporter{
		db:    db,
		cache: cache.New[string, []byte](),
	}
}

// TasksReport returns an xlsx workbook listing every task with its
// status, priority, due date, progress and resolved assignees.
func (e *Exporter) TasksReport() ([]byte, error) {
	if data, ok := e.cache.Get("tasks"); ok {
		return data, nil
	}

	var tasks []models.Task
	if err := e.db.Order("created_at desc, id").Find(&tasks).Error; err != nil {
		return nil, err
	}

	var users []models.User
	if err := e.db.Find(&users).Error; err != nil {
		return nil, err
	}
	userByID := make(map[string]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{
		"Title", "Description", "Priority", "Status", "Due Date",
		"Progress (%)", "Completed Todos", "Total Todos", "Assigned To",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, t := range tasks {
		names := make([]string, 0, len(t.AssignedTo))
		for _, id := range t.AssignedTo {
			if u, ok := userByID[id]; ok {
				names = append(names, fmt.Sprintf("%s (%s)", u.Name, u.Email))
			}
		}

		row := []interface{}{
			t.Title,
			t.Description,
			string(t.Priority),
			string(t.Status),
			t.DueDate.Format("2006-01-02"),
			t.Progress,
			t.CompletedTodoCount(),
			len(t.TodoChecklist),
			strings.Join(names, ", "),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	data := buf.Bytes()
	e.cache.Set("tasks", data, reportTTL)
	return data, nil
}

// UsersReport returns an xlsx workbook listing every user with their task
// status counts.
func (e *Exporter) UsersReport() ([]byte, error) {
	if data, ok := e.cache.Get("users"); ok {
		return data, nil
	}

	var users []models.User
	if err := e.db.Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{
		"Name", "Email", "Role", "Pending Tasks", "In Progress Tasks", "Completed Tasks",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, u := range users {
		counts, err := stats.PerUserStatusCounts(e.db, u.ID)
		if err != nil {
			return nil, err
		}

		row := []interface{}{
			u.Name,
			u.Email,
			string(u.Role),
			counts.Pending,
			counts.InProgress,
			counts.Completed,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	data := buf.Bytes()
	e.cache.Set("users", data, reportTTL)
	return data, nil
}
