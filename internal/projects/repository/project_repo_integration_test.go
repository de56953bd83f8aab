package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diyprojects/projects/internal/optional"
	"github.com/diyprojects/projects/internal/projects/domain"
	"github.com/diyprojects/projects/internal/projects/service"
	"github.com/diyprojects/projects/internal/storage/postgres"
)

// setupTestPostgres connects to TEST_DB_DSN, creates the schema if needed and
// empties every table. Skips when TEST_DB_DSN is not set.
func setupTestPostgres(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("testdata/schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	_, err = db.Exec(`TRUNCATE project_category, material, step, category, project RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return db
}

func TestIntegration_RoundTrip(t *testing.T) {
	db := setupTestPostgres(t)
	repo := NewProjectRepository(db, nil)
	ctx := context.Background()

	in := domain.Project{
		Name:           "Bookshelf",
		EstimatedHours: decimal.RequireFromString("3.1"),
		ActualHours:    decimal.RequireFromString("3.10"),
		Notes:          optional.Of(""),
	}
	created, err := repo.Insert(ctx, in)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.FetchByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Bookshelf", got.Name)
	assert.Equal(t, "3.10", got.EstimatedHours.StringFixed(2))
	assert.True(t, got.EstimatedHours.Equal(got.ActualHours))
	assert.False(t, got.Difficulty.IsPresent())
	assert.Equal(t, optional.Of(""), got.Notes)
	assert.Empty(t, got.Materials)
	assert.Empty(t, got.Steps)
	assert.Empty(t, got.Categories)
}

func TestIntegration_AggregateCompleteness(t *testing.T) {
	db := setupTestPostgres(t)
	repo := NewProjectRepository(db, nil)
	ctx := context.Background()

	created, err := repo.Insert(ctx, domain.Project{Name: "Shed", EstimatedHours: decimal.NewFromInt(40)})
	require.NoError(t, err)
	other, err := repo.Insert(ctx, domain.Project{Name: "Bench", EstimatedHours: decimal.NewFromInt(4)})
	require.NoError(t, err)

	for _, name := range []string{"studs", "siding", "roofing", "nails"} {
		_, err := db.Exec(`INSERT INTO material (project_id, material_name, num_required) VALUES ($1, $2, 1)`, created.ID, name)
		require.NoError(t, err)
	}
	for i, text := range []string{"pour slab", "frame walls"} {
		_, err := db.Exec(`INSERT INTO step (project_id, step_text, step_order) VALUES ($1, $2, $3)`, created.ID, text, i+1)
		require.NoError(t, err)
	}
	_, err = db.Exec(`INSERT INTO step (project_id, step_text, step_order) VALUES ($1, 'sand', 1)`, other.ID)
	require.NoError(t, err)
	for _, name := range []string{"Outdoor", "Carpentry", "Storage"} {
		var catID int
		require.NoError(t, db.QueryRow(`INSERT INTO category (category_name) VALUES ($1) RETURNING category_id`, name).Scan(&catID))
		_, err := db.Exec(`INSERT INTO project_category (project_id, category_id) VALUES ($1, $2)`, created.ID, catID)
		require.NoError(t, err)
		if name == "Carpentry" {
			_, err := db.Exec(`INSERT INTO project_category (project_id, category_id) VALUES ($1, $2)`, other.ID, catID)
			require.NoError(t, err)
		}
	}

	got, err := repo.FetchByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Materials, 4)
	assert.Len(t, got.Steps, 2)
	assert.Len(t, got.Categories, 3)
	assert.Equal(t, "pour slab", got.Steps[0].Text)

	bench, err := repo.FetchByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, bench.Materials)
	assert.Len(t, bench.Steps, 1)
	require.Len(t, bench.Categories, 1)
	assert.Equal(t, "Carpentry", bench.Categories[0].Name)
}

func TestIntegration_NotFoundIdempotence(t *testing.T) {
	db := setupTestPostgres(t)
	repo := NewProjectRepository(db, nil)
	ctx := context.Background()

	ok, err := repo.Update(ctx, domain.Project{ID: 12345, Name: "ghost"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, 12345)
	require.NoError(t, err)
	assert.False(t, ok)

	created, err := repo.Insert(ctx, domain.Project{Name: "Planter"})
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO step (project_id, step_text, step_order) VALUES ($1, 'cut', 1)`, created.ID)
	require.NoError(t, err)

	ok, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	var orphans int
	require.NoError(t, db.Get(&orphans, `SELECT count(*) FROM step WHERE project_id = $1`, created.ID))
	assert.Zero(t, orphans)
}

func TestIntegration_ListingOrder(t *testing.T) {
	db := setupTestPostgres(t)
	repo := NewProjectRepository(db, nil)
	ctx := context.Background()

	empty, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, name := range []string{"Zeta", "Alpha", "Mu"} {
		_, err := repo.Insert(ctx, domain.Project{Name: name})
		require.NoError(t, err)
	}

	all, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alpha", all[0].Name)
	assert.Equal(t, "Mu", all[1].Name)
	assert.Equal(t, "Zeta", all[2].Name)
}

func TestIntegration_AtomicityUnderFailure(t *testing.T) {
	db := setupTestPostgres(t)
	repo := NewProjectRepository(db, nil)
	ctx := context.Background()

	t.Run("constraint violation leaves nothing behind", func(t *testing.T) {
		_, err := repo.Insert(ctx, domain.Project{Name: "Too hard", Difficulty: optional.Of(9)})
		var se *postgres.StorageError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "23514", se.Code)
	})

	t.Run("failure after the root write rolls it back", func(t *testing.T) {
		simulated := errors.New("simulated child failure")
		err := postgres.WithTx(ctx, db, "insert with children", func(tx *sqlx.Tx) error {
			if _, err := tx.Exec(`INSERT INTO project (project_name, estimated_hours, actual_hours) VALUES ('Orphan', 1, 0)`); err != nil {
				return err
			}
			return simulated
		})
		assert.ErrorIs(t, err, simulated)
	})

	all, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestIntegration_EndToEnd(t *testing.T) {
	db := setupTestPostgres(t)
	svc := service.NewProjectService(NewProjectRepository(db, nil), nil)
	ctx := context.Background()

	created, err := svc.AddProject(ctx, domain.Project{
		Name:           "Deck",
		EstimatedHours: decimal.RequireFromString("10.00"),
		ActualHours:    decimal.Zero,
		Difficulty:     optional.Of(3),
		Notes:          optional.Of("build"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deck", got.Name)
	assert.Equal(t, "10.00", got.EstimatedHours.StringFixed(2))
	assert.Equal(t, "0.00", got.ActualHours.StringFixed(2))
	assert.Equal(t, optional.Of(3), got.Difficulty)
	assert.Equal(t, optional.Of("build"), got.Notes)
	assert.Empty(t, got.Materials)

	got.Difficulty = optional.Of(4)
	require.NoError(t, svc.UpdateProject(ctx, *got))

	again, err := svc.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, optional.Of(4), again.Difficulty)
	assert.Equal(t, created.ID, again.ID)

	require.NoError(t, svc.DeleteProject(ctx, created.ID))

	_, err = svc.GetProject(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProject(ctx, created.ID), domain.ErrNotFound)
}
