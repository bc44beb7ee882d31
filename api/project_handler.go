package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-moderation-backend/errs"
	"github.com/rpupo63/portfolio-moderation-backend/forms"
	"github.com/rpupo63/portfolio-moderation-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  projectStore
}

func newProjectHandler(projects projectStore) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

func projectCollection(projects []*models.Project) ProjectCollection {
	response := ProjectCollection{Projects: projects, Total: len(projects)}
	if len(projects) == 0 {
		response.Projects = []*models.Project{}
		response.Notice = infoNotice(msgNoProjects)
	}
	return response
}

// getPublicProjects backs the public showcase
// @Summary List showcase projects
// @Tags Projects
// @Produce json
// @Param category query string false "Only projects of this category"
// @Success 200 {object} ProjectCollection "Projects, newest first"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getPublicProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := strings.TrimSpace(r.URL.Query().Get("category"))

		projects, err := h.projects.FindByCategory(r.Context(), category)
		if err != nil {
			h.responder.WriteErrorNotice(w, wrapDatabaseError("find", "projects", err), msgLoadProjects)
			return
		}
		h.responder.WriteJSON(w, projectCollection(projects))
	}
}

// getAllProjects retrieves all projects for the editor
// @Summary Get all projects
// @Description Retrieves all projects from the database
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectCollection "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /admin/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Authentication handled by middleware

		projects, err := h.projects.FindAll(r.Context())
		if err != nil {
			h.responder.WriteErrorNotice(w, wrapDatabaseError("find", "projects", err), msgLoadProjects)
			return
		}
		h.responder.WriteJSON(w, projectCollection(projects))
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} ProjectResponse "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		h.responder.WriteJSON(w, ProjectResponse{Project: project})
	}
}

// createProject creates a new project
// @Summary Create project
// @Description Technologies and features accept a list or free text (comma separated and one per line respectively)
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body forms.ProjectForm true "Project data"
// @Success 201 {object} ProjectResponse "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation errors by field"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating project"
// @Router /admin/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form forms.ProjectForm
		if err := decodeJSON(w, r, &form); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := form.Validate()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.Add(r.Context(), &project); err != nil {
			h.responder.WriteErrorNotice(w, wrapDatabaseError("create", "project", err), msgSaveProject)
			return
		}

		h.logger.Info().Str("projectId", project.ID.String()).Msg("project created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, ProjectResponse{
			Project: &project,
			Notice:  &Notice{Kind: noticeSuccess, Message: msgProjectCreated},
		})
	}
}

// updateProject replaces the editable fields of a project
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body forms.ProjectForm true "Updated project data"
// @Success 200 {object} ProjectResponse "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var form forms.ProjectForm
		if err := decodeJSON(w, r, &form); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := form.Validate()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.Update(r.Context(), projectID, &project); err != nil {
			h.responder.WriteErrorNotice(w, wrapDatabaseError("update", "project", err), msgSaveProject)
			return
		}

		// Reload project to return stored values
		updated, err := h.projects.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated", "project", err))
			return
		}

		h.responder.WriteJSON(w, ProjectResponse{
			Project: updated,
			Notice:  &Notice{Kind: noticeSuccess, Message: msgProjectUpdated},
		})
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Description Requires confirm=true (query) or X-Confirm: true (header)
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param confirm query bool true "Explicit confirmation"
// @Success 200 {object} NoticeResponse "Success notice"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 428 {object} ErrorResponse "Precondition Required - Confirmation missing"
// @Router /admin/project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if !confirmed(r) {
			h.responder.WriteError(w, errs.NewConfirmationRequiredError(msgConfirmProject))
			return
		}

		if err := h.projects.Delete(r.Context(), projectID); err != nil {
			h.responder.WriteErrorNotice(w, wrapDatabaseError("delete", "project", err), msgDeleteProject)
			return
		}

		h.responder.WriteNotice(w, http.StatusOK, successNotice(msgProjectDeleted))
	}
}
