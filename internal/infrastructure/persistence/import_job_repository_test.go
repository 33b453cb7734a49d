package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
)

func newTestJob(t *testing.T, submittedBy uuid.UUID) *recon.ImportJob {
	t.Helper()
	job, err := recon.NewImportJob("legacy-erp", "vendor_master", recon.FormatCSV,
		[]string{"vendors.csv"}, submittedBy)
	require.NoError(t, err)
	return job
}

func TestGormImportJobRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormImportJobRepository(db)
	ctx := context.Background()

	t.Run("saves and finds a job", func(t *testing.T) {
		job := newTestJob(t, uuid.New())
		require.NoError(t, repo.Save(ctx, job))

		found, err := repo.FindByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, job.ID, found.ID)
		assert.Equal(t, "legacy-erp", found.SourceSystem)
		assert.Equal(t, recon.JobStatusSubmitted, found.Status)
		assert.Equal(t, recon.StringList{"vendors.csv"}, found.FileNames)
	})

	t.Run("returns ErrNotFound for missing job", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("updates job state in place", func(t *testing.T) {
		job := newTestJob(t, uuid.New())
		require.NoError(t, repo.Save(ctx, job))

		require.NoError(t, job.MarkPreviewed(42))
		require.NoError(t, repo.Save(ctx, job))

		found, err := repo.FindByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, recon.JobStatusPreviewed, found.Status)
		assert.Equal(t, 42, found.RowCount)
	})
}

func TestGormImportJobRepository_FindBySubmitter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormImportJobRepository(db)
	ctx := context.Background()

	submitter := uuid.New()
	other := uuid.New()
	require.NoError(t, repo.Save(ctx, newTestJob(t, submitter)))
	require.NoError(t, repo.Save(ctx, newTestJob(t, submitter)))
	require.NoError(t, repo.Save(ctx, newTestJob(t, other)))

	jobs, err := repo.FindBySubmitter(ctx, submitter, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	for _, j := range jobs {
		assert.Equal(t, submitter, j.SubmittedBy)
	}
}

func TestGormImportJobRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormImportJobRepository(db)
	ctx := context.Background()

	previewed := newTestJob(t, uuid.New())
	require.NoError(t, previewed.MarkPreviewed(5))
	require.NoError(t, repo.Save(ctx, previewed))
	require.NoError(t, repo.Save(ctx, newTestJob(t, uuid.New())))

	t.Run("filters by status", func(t *testing.T) {
		jobs, err := repo.FindAll(ctx, shared.Filter{
			Page: 1, PageSize: 10,
			Filters: map[string]interface{}{"status": string(recon.JobStatusPreviewed)},
		})
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, previewed.ID, jobs[0].ID)
	})

	t.Run("paginates", func(t *testing.T) {
		jobs, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 1})
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	})

	t.Run("counts all jobs", func(t *testing.T) {
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}
