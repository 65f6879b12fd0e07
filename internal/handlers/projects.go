package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/services"
	"github.com/Junior-189/CITT-Project-sub001/pkg/response"
)

// ProjectHandler exposes the project lifecycle endpoints.
type ProjectHandler struct {
	projects *services.ProjectService
}

// NewProjectHandler constructs a ProjectHandler.
func NewProjectHandler(db *gorm.DB) (*ProjectHandler, error) {
	notifications, err := services.NewNotificationService(db)
	if err != nil {
		return nil, err
	}
	projects, err := services.NewProjectService(db, notifications)
	if err != nil {
		return nil, err
	}
	return &ProjectHandler{projects: projects}, nil
}

type createProjectPayload struct {
	Title    string `json:"title" validate:"required,min=3"`
	Abstract string `json:"abstract"`
	Category string `json:"category"`
	Draft    bool   `json:"draft"`
}

// Create stores a new project for the caller.
func (h *ProjectHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var payload createProjectPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	project, err := h.projects.Create(requestContext(c), principal, services.CreateProjectInput{
		Title:    payload.Title,
		Abstract: payload.Abstract,
		Category: payload.Category,
		Draft:    payload.Draft,
	})
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusCreated, project)
}

// List returns projects. Innovators see their own; staff see everything and
// may filter by status or category.
func (h *ProjectHandler) List(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	opts := services.ListOptions{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "per_page", 50),
	}
	if !isStaff(principal) {
		opts.OwnerID = principal.ID
	}

	projects, total, err := h.projects.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, projects, listMeta(opts.Page, opts.PageSize, total))
}

// Get returns a single project. The ownership gate already ran.
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, svcError(err))
		return
	}
	response.Success(c, http.StatusOK, project)
}

type updateProjectPayload struct {
	Title    *string `json:"title"`
	Abstract *string `json:"abstract"`
	Category *string `json:"category"`
}

// Update edits a draft.
func (h *ProjectHandler) Update(c *gin.Context) {
	var payload updateProjectPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	project, err := h.projects.Update(requestContext(c), c.Param("id"), services.UpdateProjectInput{
		Title:    payload.Title,
		Abstract: payload.Abstract,
		Category: payload.Category,
	})
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusOK, project)
}

// Submit moves a draft into the review queue.
func (h *ProjectHandler) Submit(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	project, err := h.projects.Submit(requestContext(c), c.Param("id"), principal)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusOK, project)
}

// Review marks a submitted project as under review.
func (h *ProjectHandler) Review(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	project, err := h.projects.Review(requestContext(c), c.Param("id"), principal)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusOK, project)
}

type decideProjectPayload struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment"`
}

// Decide approves or rejects a project.
func (h *ProjectHandler) Decide(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var payload decideProjectPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	project, err := h.projects.Decide(requestContext(c), c.Param("id"), principal, payload.Approve, payload.Comment)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusOK, project)
}
