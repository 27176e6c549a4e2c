package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/tracklane/task-tracker-api/internal/dto"
	"github.com/tracklane/task-tracker-api/internal/models"
	"github.com/tracklane/task-tracker-api/internal/services"
)

func projectRouter(env testEnv, actor *models.User) *gin.Engine {
	r := gin.New()
	projects := r.Group("/api/projects", asActor(actor))
	{
		projects.GET("", env.projectHandler.ListProjects)
		projects.POST("", env.projectHandler.CreateProject)
		projects.GET("/:id", env.projectHandler.GetProject)
		projects.PATCH("/:id", env.projectHandler.UpdateProject)
		projects.DELETE("/:id", env.projectHandler.DeleteProject)
		projects.POST("/:id/deactivate", env.projectHandler.DeactivateProject)
		projects.GET("/:id/members", env.projectHandler.ListMembers)
		projects.POST("/:id/members/:user_id", env.projectHandler.AddMember)
		projects.DELETE("/:id/members/:user_id", env.projectHandler.RemoveMember)
	}
	return r
}

func TestProjectHandler_Create(t *testing.T) {
	env := setupTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	r := projectRouter(env, manager)

	body, err := json.Marshal(map[string]string{
		"name":        "Mars Preparation",
		"prefix":      "MPP",
		"description": "Get ready",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "MPP", response.Prefix)
	require.Equal(t, manager.ID, response.CreatorID)
	require.True(t, response.IsActive)
}

func TestProjectHandler_CreateInvalidPrefix(t *testing.T) {
	env := setupTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	r := projectRouter(env, manager)

	for _, prefix := range []string{"mp", "mpp", "TOOLONGX", "MP1", "MP"} {
		body, err := json.Marshal(map[string]string{
			"name":   "Project",
			"prefix": prefix,
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code, "prefix %q should be rejected", prefix)
	}
}

func TestProjectHandler_CreateDeniedWithoutManagerFlag(t *testing.T) {
	env := setupTestEnv(t)
	plain := seedUser(t, env.db, "plain", false, false, true)
	r := projectRouter(env, plain)

	body, err := json.Marshal(map[string]string{
		"name":   "Project",
		"prefix": "MPP",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestProjectHandler_CreateDuplicatePrefix(t *testing.T) {
	env := setupTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	_, err := env.projectService.Create(manager, services.CreateProjectInput{Name: "First", Prefix: "MPP"})
	require.NoError(t, err)

	r := projectRouter(env, manager)

	body, err := json.Marshal(map[string]string{
		"name":   "Second",
		"prefix": "MPP",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestProjectHandler_GetStatuses(t *testing.T) {
	env := setupTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	outsider := seedUser(t, env.db, "outsider", false, false, true)

	project, err := env.projectService.Create(manager, services.CreateProjectInput{Name: "P", Prefix: "MPP"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), nil)
	w := httptest.NewRecorder()
	projectRouter(env, manager).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Existing but invisible: 403, not 404.
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), nil)
	w = httptest.NewRecorder()
	projectRouter(env, outsider).ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID+100), nil)
	w = httptest.NewRecorder()
	projectRouter(env, manager).ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandler_MemberLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	member := seedUser(t, env.db, "member", false, false, true)

	project, err := env.projectService.Create(manager, services.CreateProjectInput{Name: "P", Prefix: "MPP"})
	require.NoError(t, err)

	r := projectRouter(env, manager)
	memberURL := fmt.Sprintf("/api/projects/%d/members/%d", project.ID, member.ID)

	req := httptest.NewRequest(http.MethodPost, memberURL, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate add conflicts.
	req = httptest.NewRequest(http.MethodPost, memberURL, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusConflict, w.Code)

	// The creator is protected from removal.
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/projects/%d/members/%d", project.ID, manager.ID), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodDelete, memberURL, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Removing again: no longer a member.
	req = httptest.NewRequest(http.MethodDelete, memberURL, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_DeleteRequiresInactive(t *testing.T) {
	env := setupTestEnv(t)
	manager := seedUser(t, env.db, "manager", false, true, false)
	admin := seedUser(t, env.db, "admin", true, false, false)

	project, err := env.projectService.Create(manager, services.CreateProjectInput{Name: "P", Prefix: "MPP"})
	require.NoError(t, err)

	adminRouter := projectRouter(env, admin)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/projects/%d", project.ID), nil)
	w := httptest.NewRecorder()
	adminRouter.ServeHTTP(w, req)
	require.Equal(t, http.StatusConflict, w.Code)

	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/projects/%d/deactivate", project.ID), nil)
	w = httptest.NewRecorder()
	projectRouter(env, manager).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/projects/%d", project.ID), nil)
	w = httptest.NewRecorder()
	adminRouter.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
