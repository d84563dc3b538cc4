package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robaadekings/Robert-portifolio-website/internal/cache"
	"github.com/robaadekings/Robert-portifolio-website/internal/media"
	"github.com/robaadekings/Robert-portifolio-website/internal/models"
	"github.com/robaadekings/Robert-portifolio-website/pkg/logger"
	"github.com/robaadekings/Robert-portifolio-website/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db      *gorm.DB
	gateway *media.Gateway
	cache   cache.ProjectCache
	folder  string
}

func NewProjectService(db *gorm.DB, gateway *media.Gateway, projectCache cache.ProjectCache, folder string) *ProjectService {
	if projectCache == nil {
		projectCache = cache.Noop{}
	}
	return &ProjectService{
		db:      db,
		gateway: gateway,
		cache:   projectCache,
		folder:  folder,
	}
}

// ProjectInput carries the scalar fields of a create or update request.
// Empty strings and an empty TechStack mean "not provided"; Featured is nil
// when the client did not send it.
type ProjectInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TechStack   StringList `json:"techStack"`
	GithubURL   string     `json:"githubUrl"`
	LiveURL     string     `json:"liveUrl"`
	Featured    *bool      `json:"featured"`
}

// IsEmpty reports whether no field was provided.
func (in *ProjectInput) IsEmpty() bool {
	return in.Title == "" && in.Description == "" && len(in.TechStack) == 0 &&
		in.GithubURL == "" && in.LiveURL == "" && in.Featured == nil
}

// List returns every project, newest first.
func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	projects, gen, ok := s.cache.GetProjects(ctx)
	if ok {
		return projects, nil
	}

	projects = []models.Project{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	s.cache.SetProjects(ctx, gen, projects)
	return projects, nil
}

// GetByID returns a project by ID
func (s *ProjectService) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("Project not found")
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &project, nil
}

// Create uploads the staged images in order and stores a new project
// pointing at the resulting URLs.
func (s *ProjectService) Create(ctx context.Context, in *ProjectInput, imagePaths []string) (*models.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, response.NewValidation("title is required")
	}

	images, err := s.gateway.UploadBatch(ctx, imagePaths, s.folder)
	if err != nil {
		s.discard(ctx, images)
		return nil, err
	}

	project := models.Project{
		Title:       title,
		Description: in.Description,
		TechStack:   in.TechStack.OrEmpty(),
		Images:      images,
		GithubURL:   in.GithubURL,
		LiveURL:     in.LiveURL,
	}
	if in.Featured != nil {
		project.Featured = *in.Featured
	}

	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		s.discard(ctx, images)
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.cache.Invalidate(ctx)
	logger.Info().Uint("project_id", project.ID).Int("images", len(images)).Msg("project created")
	return &project, nil
}

// Update merges the provided fields into the project and appends newly
// uploaded images after the existing ones.
func (s *ProjectService) Update(ctx context.Context, id uint, in *ProjectInput, imagePaths []string) (*models.Project, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.IsEmpty() && len(imagePaths) == 0 {
		return project, nil
	}

	newImages, err := s.gateway.UploadBatch(ctx, imagePaths, s.folder)
	if err != nil {
		s.discard(ctx, newImages)
		return nil, err
	}

	applyProjectInput(project, in)
	project.Images = append(project.Images, newImages...)

	if err := s.db.WithContext(ctx).Save(project).Error; err != nil {
		s.discard(ctx, newImages)
		return nil, fmt.Errorf("update project: %w", err)
	}

	s.cache.Invalidate(ctx)
	return project, nil
}

func applyProjectInput(p *models.Project, in *ProjectInput) {
	if t := strings.TrimSpace(in.Title); t != "" {
		p.Title = t
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if len(in.TechStack) > 0 {
		p.TechStack = in.TechStack
	}
	if in.GithubURL != "" {
		p.GithubURL = in.GithubURL
	}
	if in.LiveURL != "" {
		p.LiveURL = in.LiveURL
	}
	// false is a real value here, so presence decides.
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if p.Images == nil {
		p.Images = []string{}
	}
}

// Delete removes the project after attempting to delete each of its remote
// images. Remote failures are logged and do not block the delete.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	failed := 0
	for _, img := range project.Images {
		if err := s.gateway.Remove(ctx, img, s.folder); err != nil {
			failed++
		}
	}
	if failed > 0 {
		logger.Warn().Uint("project_id", id).Int("failed", failed).Int("total", len(project.Images)).
			Msg("some project images could not be deleted remotely")
	}

	result := s.db.WithContext(ctx).Delete(&models.Project{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("Project not found")
	}

	s.cache.Invalidate(ctx)
	return nil
}

// discard is the compensating action for uploads whose project write never
// happened.
func (s *ProjectService) discard(ctx context.Context, urls []string) {
	for _, u := range urls {
		_ = s.gateway.Remove(ctx, u, s.folder)
	}
}
