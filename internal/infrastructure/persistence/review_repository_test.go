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

func TestGormReviewRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReviewRepository(db)
	ctx := context.Background()
	jobID := uuid.New()
	reviewer := uuid.New()

	vendorConf, err := recon.NewReviewConfirmation(jobID, recon.AreaVendor, reviewer, "looks clean")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, vendorConf))

	identConf, err := recon.NewReviewConfirmation(jobID, recon.AreaVendorIdentifier, reviewer, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, identConf))

	t.Run("finds all confirmations of a job", func(t *testing.T) {
		confirmations, err := repo.FindByJob(ctx, jobID)
		require.NoError(t, err)
		assert.Len(t, confirmations, 2)
	})

	t.Run("finds one area confirmation", func(t *testing.T) {
		found, err := repo.FindByJobAndArea(ctx, jobID, recon.AreaVendor)
		require.NoError(t, err)
		assert.Equal(t, vendorConf.ID, found.ID)
		assert.Equal(t, "looks clean", found.Note)
	})

	t.Run("returns ErrNotFound for unconfirmed area", func(t *testing.T) {
		_, err := repo.FindByJobAndArea(ctx, jobID, recon.AreaPayment)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("other jobs are isolated", func(t *testing.T) {
		confirmations, err := repo.FindByJob(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, confirmations)
	})
}
