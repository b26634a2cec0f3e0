package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"workhive-api/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves spreadsheet downloads (admin only).
type ReportHandler struct {
	Exporter *report.Exporter
}

func NewReportHandler(exporter *report.Exporter) *ReportHandler {
	return &ReportHandler{Exporter: exporter}
}

// ExportTasks handles GET /api/reports/export/tasks
func (h *ReportHandler) ExportTasks(c *gin.Context) {
	data, err := h.Exporter.TasksReport()
	if err != nil {
		respondError(c, storeError(err, "Tasks not found"))
		return
	}
	serveWorkbook(c, "tasks_report.xlsx", data)
}

// ExportUsers handles GET /api/reports/export/users
func (h *ReportHandler) ExportUsers(c *gin.Context) {
	data, err := h.Exporter.UsersReport()
	if err != nil {
		respondError(c, storeError(err, "Users not found"))
		return
	}
	serveWorkbook(c, "users_report.xlsx", data)
}

func serveWorkbook(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
