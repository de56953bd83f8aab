package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/diyprojects/projects/internal/logger"
	"github.com/diyprojects/projects/internal/projects/domain"
	"github.com/diyprojects/projects/internal/storage/mapper"
	"github.com/diyprojects/projects/internal/storage/postgres"
)

const (
	projectColumns = `project_id, project_name, estimated_hours, actual_hours, difficulty, notes`

	insertProjectSQL = `
INSERT INTO project (project_name, estimated_hours, actual_hours, difficulty, notes)
VALUES ($1, $2, $3, $4, $5)
RETURNING project_id;
`
	selectAllProjectsSQL = `
SELECT ` + projectColumns + `
FROM project
ORDER BY project_name;
`
	selectProjectSQL = `
SELECT ` + projectColumns + `
FROM project
WHERE project_id = $1;
`
	selectMaterialsSQL = `
SELECT material_id, project_id, material_name, num_required, cost
FROM material
WHERE project_id = $1
ORDER BY material_id;
`
	selectStepsSQL = `
SELECT step_id, project_id, step_text, step_order
FROM step
WHERE project_id = $1
ORDER BY step_order, step_id;
`
	selectCategoriesSQL = `
SELECT c.category_id, c.category_name
FROM category c
JOIN project_category pc USING (category_id)
WHERE pc.project_id = $1
ORDER BY c.category_name;
`
	updateProjectSQL = `
UPDATE project
SET project_name = $1,
    estimated_hours = $2,
    actual_hours = $3,
    difficulty = $4,
    notes = $5
WHERE project_id = $6;
`
	deleteProjectSQL = `
DELETE FROM project
WHERE project_id = $1;
`
)

// ProjectRepository provides persistence operations for the project
// aggregate. Every public method runs in exactly one transaction.
type ProjectRepository struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sqlx.DB, log *logger.Logger) *ProjectRepository {
	if log == nil {
		log = logger.NewNop()
	}
	return &ProjectRepository{db: db, log: log}
}

// Insert writes the root row and returns a copy carrying the
// storage-assigned ID. Child rows are not written.
func (r *ProjectRepository) Insert(ctx context.Context, p domain.Project) (*domain.Project, error) {
	p = p.Normalized()

	args, err := rootParams(p)
	if err != nil {
		return nil, err
	}

	err = postgres.WithTx(ctx, r.db, "insert project", func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, insertProjectSQL, args...).Scan(&p.ID)
	})
	if err != nil {
		r.log.LogError("projects.insert", err)
		return nil, err
	}

	p.Materials = []domain.Material{}
	p.Steps = []domain.Step{}
	p.Categories = []domain.Category{}
	r.log.LogDebugf("projects.insert", "inserted project %d", p.ID)
	return &p, nil
}

// FetchAll lists every project by name without loading children.
func (r *ProjectRepository) FetchAll(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	err := postgres.WithTx(ctx, r.db, "fetch all projects", func(tx *sqlx.Tx) error {
		var err error
		out, err = mapper.ExtractAll[domain.Project](ctx, tx, selectAllProjectsSQL)
		return err
	})
	if err != nil {
		r.log.LogError("projects.fetch_all", err)
		return nil, err
	}

	for i := range out {
		out[i] = out[i].Normalized()
	}
	return out, nil
}

// FetchByID loads a project with its materials, steps and categories. It
// returns nil, nil when no project has the ID.
func (r *ProjectRepository) FetchByID(ctx context.Context, id int) (*domain.Project, error) {
	idArgs, err := idParams(id)
	if err != nil {
		return nil, err
	}

	var project *domain.Project
	err = postgres.WithTx(ctx, r.db, "fetch project", func(tx *sqlx.Tx) error {
		p, found, err := mapper.ExtractOne[domain.Project](ctx, tx, selectProjectSQL, idArgs...)
		if err != nil || !found {
			return err
		}

		if p.Materials, err = mapper.ExtractAll[domain.Material](ctx, tx, selectMaterialsSQL, idArgs...); err != nil {
			return fmt.Errorf("fetch materials: %w", err)
		}
		if p.Steps, err = mapper.ExtractAll[domain.Step](ctx, tx, selectStepsSQL, idArgs...); err != nil {
			return fmt.Errorf("fetch steps: %w", err)
		}
		if p.Categories, err = mapper.ExtractAll[domain.Category](ctx, tx, selectCategoriesSQL, idArgs...); err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}

		p = p.Normalized()
		project = &p
		return nil
	})
	if err != nil {
		r.log.LogError("projects.fetch", err)
		return nil, err
	}
	return project, nil
}

// Update overwrites the root-row fields of the project with p.ID. It reports
// false when no row has that ID.
func (r *ProjectRepository) Update(ctx context.Context, p domain.Project) (bool, error) {
	p = p.Normalized()

	args, err := rootParams(p)
	if err != nil {
		return false, err
	}
	idArgs, err := idParams(p.ID)
	if err != nil {
		return false, err
	}

	return r.execSingleRow(ctx, "update project", "projects.update", p.ID, updateProjectSQL, append(args, idArgs...))
}

// Delete removes the project row with the given ID. Child rows are left to
// the schema's foreign key actions.
func (r *ProjectRepository) Delete(ctx context.Context, id int) (bool, error) {
	idArgs, err := idParams(id)
	if err != nil {
		return false, err
	}
	return r.execSingleRow(ctx, "delete project", "projects.delete", id, deleteProjectSQL, idArgs)
}

func (r *ProjectRepository) execSingleRow(ctx context.Context, op, logOp string, id int, query string, args []any) (bool, error) {
	var affected int64
	err := postgres.WithTx(ctx, r.db, op, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		if affected, err = res.RowsAffected(); err != nil {
			return err
		}
		if affected > 1 {
			return fmt.Errorf("%w: %d rows affected for project %d", postgres.ErrIntegrity, affected, id)
		}
		return nil
	})
	if err != nil {
		r.log.LogError(logOp, err)
		return false, err
	}
	return affected == 1, nil
}

func rootParams(p domain.Project) ([]any, error) {
	params := mapper.NewParams(5)
	for i, b := range []struct {
		value any
		typ   mapper.Type
	}{
		{p.Name, mapper.String},
		{p.EstimatedHours, mapper.Decimal},
		{p.ActualHours, mapper.Decimal},
		{p.Difficulty, mapper.Integer},
		{p.Notes, mapper.String},
	} {
		if err := params.Bind(i+1, b.value, b.typ); err != nil {
			return nil, err
		}
	}
	return params.Args()
}

func idParams(id int) ([]any, error) {
	params := mapper.NewParams(1)
	if err := params.Bind(1, id, mapper.Integer); err != nil {
		return nil, err
	}
	return params.Args()
}
