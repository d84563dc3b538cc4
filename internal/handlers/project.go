package handlers

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/robaadekings/Robert-portifolio-website/internal/media"
	"github.com/robaadekings/Robert-portifolio-website/internal/middleware"
	"github.com/robaadekings/Robert-portifolio-website/internal/services"
	"github.com/robaadekings/Robert-portifolio-website/pkg/response"
)

const projectImagesField = "images"

type ProjectHandler struct {
	projectService *services.ProjectService
	gateway        *media.Gateway
}

func NewProjectHandler(projectService *services.ProjectService, gateway *media.Gateway) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		gateway:        gateway,
	}
}

// List returns every project, newest first
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, projects)
}

// GetByID returns a project by ID
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Create creates a new project from a multipart form with up to five images
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	in, files, err := readProjectRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	staged, err := h.gateway.Stage(files)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer staged.Cleanup()

	project, err := h.projectService.Create(c.Request.Context(), in, staged.Paths)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, project)
}

// Update merges fields into a project and appends any uploaded images
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	in, files, err := readProjectRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	staged, err := h.gateway.Stage(files)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer staged.Cleanup()

	project, err := h.projectService.Update(c.Request.Context(), id, in, staged.Paths)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Delete deletes a project and, best effort, its remote images
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Project and images deleted")
}

// readProjectRequest accepts either multipart/form-data (fields plus
// "images" files) or a JSON body without files.
func readProjectRequest(c *gin.Context) (*services.ProjectInput, []*multipart.FileHeader, error) {
	in := &services.ProjectInput{}

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if c.Request.ContentLength == 0 {
			return in, nil, nil
		}
		if err := c.ShouldBindJSON(in); err != nil {
			return nil, nil, bindError(err)
		}
		return in, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			return nil, nil, response.NewPayloadTooLarge("request body too large")
		}
		return nil, nil, response.NewValidation("invalid multipart form")
	}

	in.Title = formValue(form, "title")
	in.Description = formValue(form, "description")
	in.GithubURL = formValue(form, "githubUrl")
	in.LiveURL = formValue(form, "liveUrl")
	in.TechStack = services.ParseStringList(form.Value["techStack"]...)

	if raw, ok := form.Value["featured"]; ok && len(raw) > 0 && strings.TrimSpace(raw[0]) != "" {
		featured, err := strconv.ParseBool(strings.TrimSpace(raw[0]))
		if err != nil {
			return nil, nil, response.NewValidation("featured must be true or false")
		}
		in.Featured = &featured
	}

	return in, form.File[projectImagesField], nil
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
