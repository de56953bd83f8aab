package service

import (
	"context"

	"github.com/diyprojects/projects/internal/logger"
	"github.com/diyprojects/projects/internal/projects/domain"
)

// Repository is the persistence contract the service needs. It is
// satisfied by *repository.ProjectRepository.
type Repository interface {
	Insert(ctx context.Context, p domain.Project) (*domain.Project, error)
	FetchAll(ctx context.Context) ([]domain.Project, error)
	FetchByID(ctx context.Context, id int) (*domain.Project, error)
	Update(ctx context.Context, p domain.Project) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo Repository
	log  *logger.Logger
}

// NewProjectService creates a new project service
func NewProjectService(repo Repository, log *logger.Logger) *ProjectService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ProjectService{
		repo: repo,
		log:  log,
	}
}

// AddProject validates and inserts a project, returning it with its ID.
func (s *ProjectService) AddProject(ctx context.Context, p domain.Project) (*domain.Project, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	created, err := s.repo.Insert(ctx, p)
	if err != nil {
		return nil, err
	}
	s.log.WithOperationID().LogInfof("projects.add", "created project %d (%s)", created.ID, created.Name)
	return created, nil
}

// ListProjects returns all projects by name, without details.
func (s *ProjectService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.repo.FetchAll(ctx)
}

// GetProject returns the full project aggregate or a *domain.NotFoundError.
func (s *ProjectService) GetProject(ctx context.Context, id int) (*domain.Project, error) {
	p, err := s.repo.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.NotFoundError{ProjectID: id}
	}
	return p, nil
}

// UpdateProject overwrites the project's details. A missing ID yields a
// *domain.NotFoundError.
func (s *ProjectService) UpdateProject(ctx context.Context, p domain.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	ok, err := s.repo.Update(ctx, p)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.NotFoundError{ProjectID: p.ID}
	}
	s.log.WithOperationID().LogInfof("projects.update", "updated project %d", p.ID)
	return nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id int) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.NotFoundError{ProjectID: id}
	}
	s.log.WithOperationID().LogInfof("projects.delete", "deleted project %d", id)
	return nil
}
