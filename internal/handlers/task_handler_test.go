package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"workhive-api/internal/models"
	"workhive-api/internal/stats"
)

func createTask(t *testing.T, env *testEnv, adminToken string, assignees []string, todos []string) models.Task {
	t.Helper()

	items := make([]map[string]any, 0, len(todos))
	for _, text := range todos {
		items = append(items, map[string]any{"text": text})
	}

	w := env.do(t, http.MethodPost, "/api/tasks/create", adminToken, map[string]any{
		"title":         "Test Task",
		"description":   "Desc",
		"priority":      "High",
		"dueDate":       time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"assignedTo":    assignees,
		"todoChecklist": items,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Task
	decode(t, w, &created)
	return created
}

func TestCreateTask_StartsPending(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)
	member, _ := env.seedMember(t, "u-1", "Fahad", "fahad@test.com")

	created := createTask(t, env, adminToken, []string{member.ID}, []string{"a", "b"})

	require.Equal(t, 0, created.Progress)
	require.Equal(t, models.StatusPending, created.Status)
	require.Len(t, created.TodoChecklist, 2)
	for _, item := range created.TodoChecklist {
		require.False(t, item.Completed)
	}
}

func TestCreateTask_ChecklistFlagsForcedIncomplete(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)
	member, _ := env.seedMember(t, "u-1", "Fahad", "fahad@test.com")

	w := env.do(t, http.MethodPost, "/api/tasks/create", adminToken, map[string]any{
		"title":       "Test Task",
		"description": "Desc",
		"dueDate":     time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"assignedTo":  []string{member.ID},
		"todoChecklist": []map[string]any{
			{"text": "a", "completed": true},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Task
	decode(t, w, &created)
	require.Equal(t, models.StatusPending, created.Status)
	require.False(t, created.TodoChecklist[0].Completed)
}

func TestCreateTask_RequiresAssigneesAndChecklist(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)

	w := env.do(t, http.MethodPost, "/api/tasks/create", adminToken, map[string]any{
		"title":         "Test Task",
		"description":   "Desc",
		"dueDate":       time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"assignedTo":    []string{},
		"todoChecklist": []map[string]any{{"text": "a"}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTask_RejectsUnknownPriority(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)
	member, _ := env.seedMember(t, "u-1", "Fahad", "fahad@test.com")

	w := env.do(t, http.MethodPost, "/api/tasks/create", adminToken, map[string]any{
		"title":         "Test Task",
		"description":   "Desc",
		"priority":      "Urgent",
		"dueDate":       time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"assignedTo":    []string{member.ID},
		"todoChecklist": []map[string]any{{"text": "a"}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTask_MemberForbidden(t *testing.T) {
	env := newTestEnv(t)
	member, memberToken := env.seedMember(t, "u-1", "Fahad", "fahad@test.com")

	w := env.do(t, http.MethodPost, "/api/tasks/create", memberToken, map[string]any{
		"title":         "Test Task",
		"description":   "Desc",
		"dueDate":       time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"assignedTo":    []string{member.ID},
		"todoChecklist": []map[string]any{{"text": "a"}},
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestChecklistWalk_DrivesStatus(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)
	member, memberToken := env.seedMember(t, "u-1", "Fahad", "fahad@test.com")

	created := createTask(t, env, adminToken, []string{member.ID}, []string{"a", "b"})

	// Mark "a" complete: progress 50, In Progress.
	w := env.do(t, http.MethodPut, "/api/tasks/"+created.ID+"/todo", memberToken, map[string]any{
		"todoChecklist": []map[string]any{
			{"text": "a", "completed": true},
			{"text": "b", "completed": false},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated TaskResponse
	decode(t, w, &updated)
	require.Equal(t, 50, updated.Progress)
	require.Equal(t, models.StatusInProgress, updated.Status)

	// Mark "b" complete too: progress 100, Completed.
	w = env.do(t, http.MethodPut, "/api/tasks/"+created.ID+"/todo", memberToken, map[string]any{
		"todoChecklist": []map[string]any{
			{"text": "a", "completed": true},
			{"text": "b", "completed": true},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	decode(t, w, &updated)
	require.Equal(t, 100, updated.Progress)
	require.Equal(t, models.StatusCompleted, updated.Status)
}

func TestUpdateTaskChecklist_UnassignedMemberForbidden(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)
	member, _ := env.seedMember(t, "u-1", "Fahad", "fahad@test.com")
	_, otherToken := env.seedMember(t, "u-2", "Sara", "sara@test.com")

	created := createTask(t, env, adminToken, []string{member.ID}, []string{"a"})

	w := env.do(t, http.MethodPut, "/api/tasks/"+created.ID+"/todo", otherToken, map[string]any{
		"todoChecklist": []map[string]any{{"text": "a", "completed": true}},
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateTask_ChecklistTextMerge(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)
	member, memberToken := env.seedMember(t, "u-1", "Fahad", "fahad@test.com")

	created := createTask(t, env, adminToken, []string{member.ID}, []string{"a", "b"})

	// Complete "a" first.
	w := env.do(t, http.MethodPut, "/api/tasks/"+created.ID+"/todo", memberToken, map[string]any{
		"todoChecklist": []map[string]any{
			{"text": "a", "completed": true},
			{"text": "b", "completed": false},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Replace checklist ["a","b"] with ["a","c"]: "a" stays complete,
	// "c" starts incomplete.
	w = env.do(t, http.MethodPut, "/api/tasks/"+created.ID, adminToken, map[string]any{
		"todoChecklist": []map[string]any{
			{"text": "a"},
			{"text": "c"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated TaskResponse
	decode(t, w, &updated)
	require.Equal(t, 50, updated.Progress)
	require.Equal(t, models.StatusInProgress, updated.Status)
	require.True(t, updated.TodoChecklist[0].Completed)
	require.False(t, updated.TodoChecklist[1].Completed)
}

func TestUpdateTask_ChecklistFlagsNotWritable(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)
	member, _ := env.seedMember(t, "u-1", "Fahad", "fahad@test.com")

	created := createTask(t, env, adminToken, []string{member.ID}, []string{"a", "b"})

	// An update carrying completed:true on a renamed item must not arrive
	// completed; only the previous checklist decides completion state.
	w := env.do(t, http.MethodPut, "/api/tasks/"+created.ID, adminToken, map[string]any{
		"todoChecklist": []map[string]any{
			{"text": "a", "completed": true},
			{"text": "renamed", "completed": true},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated TaskResponse
	decode(t, w, &updated)
	require.Equal(t, 0, updated.Progress)
	require.Equal(t, models.StatusPending, updated.Status)
	require.False(t, updated.TodoChecklist[0].Completed)
	require.False(t, updated.TodoChecklist[1].Completed)
}

func TestGetTasks_MemberScopeAndSummary(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)
	member1, member1Token := env.seedMember(t, "u-1", "Fahad", "fahad@test.com")
	member2, _ := env.seedMember(t, "u-2", "Sara", "sara@test.com")

	createTask(t, env, adminToken, []string{member1.ID}, []string{"a"})
	createTask(t, env, adminToken, []string{member1.ID}, []string{"b"})
	createTask(t, env, adminToken, []string{member2.ID}, []string{"c"})

	// Member sees only their own tasks, summary scoped the same way.
	var resp struct {
		Tasks         []TaskResponse      `json:"tasks"`
		StatusSummary stats.StatusSummary `json:"statusSummary"`
	}

	w := env.do(t, http.MethodGet, "/api/tasks", member1Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	require.Len(t, resp.Tasks, 2)
	require.EqualValues(t, 2, resp.StatusSummary.All)
	require.EqualValues(t, 2, resp.StatusSummary.Pending)

	// Admin sees everything.
	w = env.do(t, http.MethodGet, "/api/tasks", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	require.Len(t, resp.Tasks, 3)
	require.EqualValues(t, 3, resp.StatusSummary.All)

	// Resolved assignees carry display fields, never the hash.
	require.NotEmpty(t, resp.Tasks[0].AssignedTo)
	require.NotEmpty(t, resp.Tasks[0].AssignedTo[0].Name)
}

func TestGetTasks_StatusFilter(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)
	member, memberToken := env.seedMember(t, "u-1", "Fahad", "fahad@test.com")

	createTask(t, env, adminToken, []string{member.ID}, []string{"a"})
	done := createTask(t, env, adminToken, []string{member.ID}, []string{"b"})

	w := env.do(t, http.MethodPut, "/api/tasks/"+done.ID+"/todo", memberToken, map[string]any{
		"todoChecklist": []map[string]any{{"text": "b", "completed": true}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tasks []TaskResponse `json:"tasks"`
	}
	w = env.do(t, http.MethodGet, "/api/tasks?status=Completed", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	require.Len(t, resp.Tasks, 1)
	require.Equal(t, done.ID, resp.Tasks[0].ID)
}

func TestGetTaskByID_ResolvesAssignees(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)
	member, _ := env.seedMember(t, "u-1", "Fahad", "fahad@test.com")

	created := createTask(t, env, adminToken, []string{member.ID}, []string{"a"})

	w := env.do(t, http.MethodGet, "/api/tasks/"+created.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp TaskResponse
	decode(t, w, &resp)
	require.Len(t, resp.AssignedTo, 1)
	require.Equal(t, member.ID, resp.AssignedTo[0].ID)
	require.Equal(t, "Fahad", resp.AssignedTo[0].Name)
}

func TestGetTaskByID_MissingAssigneeSkipped(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)
	member, _ := env.seedMember(t, "u-1", "Fahad", "fahad@test.com")

	created := createTask(t, env, adminToken, []string{member.ID, "ghost-user"}, []string{"a"})

	w := env.do(t, http.MethodGet, "/api/tasks/"+created.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp TaskResponse
	decode(t, w, &resp)
	require.Len(t, resp.AssignedTo, 1)
	require.Equal(t, member.ID, resp.AssignedTo[0].ID)
}

func TestDeleteTask(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)
	member, _ := env.seedMember(t, "u-1", "Fahad", "fahad@test.com")

	created := createTask(t, env, adminToken, []string{member.ID}, []string{"a"})

	w := env.do(t, http.MethodDelete, "/api/tasks/"+created.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/tasks/"+created.ID, adminToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTask_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)

	w := env.do(t, http.MethodDelete, "/api/tasks/no-such-task", adminToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardData(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin(t)
	member1, member1Token := env.seedMember(t, "u-1", "Fahad", "fahad@test.com")
	member2, _ := env.seedMember(t, "u-2", "Sara", "sara@test.com")

	createTask(t, env, adminToken, []string{member1.ID}, []string{"a"})
	createTask(t, env, adminToken, []string{member1.ID}, []string{"b"})
	done := createTask(t, env, adminToken, []string{member1.ID}, []string{"c"})
	createTask(t, env, adminToken, []string{member2.ID}, []string{"d", "e"})

	w := env.do(t, http.MethodPut, "/api/tasks/"+done.ID+"/todo", member1Token, map[string]any{
		"todoChecklist": []map[string]any{{"text": "c", "completed": true}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Statistics stats.Statistics `json:"statistics"`
	}
	w = env.do(t, http.MethodGet, "/api/tasks/dashboard-data", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	require.EqualValues(t, 4, resp.Statistics.TotalTasks)
	require.EqualValues(t, 3, resp.Statistics.PendingTasks)
	require.EqualValues(t, 1, resp.Statistics.CompletedTasks)

	// Member dashboard is scoped to their assignments.
	w = env.do(t, http.MethodGet, "/api/tasks/user-dashboard-data", member1Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	require.EqualValues(t, 3, resp.Statistics.TotalTasks)
}
