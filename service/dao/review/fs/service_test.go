package fs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/service/dao"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	srv, err := New(ctx, "mem://localhost/reviewflow/fs-store-test")
	require.NoError(t, err)

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	items := []*model.ReviewItem{
		{ID: "id-1", ContentID: "c/1", Status: model.StatusPending, Priority: 3, CreatedAt: created, BatchJobID: "b1"},
		{ID: "id-2", ContentID: "c2", Status: model.StatusApproved, Priority: 1, CreatedAt: created},
	}
	for _, item := range items {
		require.NoError(t, srv.Save(ctx, item))
	}
	assert.ErrorIs(t, srv.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, srv.Save(ctx, &model.ReviewItem{}), dao.ErrInvalidID)

	loaded, err := srv.Load(ctx, "c/1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "id-1", loaded.ID)
	assert.Equal(t, 3, loaded.Priority)
	assert.True(t, created.Equal(loaded.CreatedAt))

	missing, err := srv.Load(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	all, err := srv.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	batch, err := srv.List(ctx, dao.NewParameter(dao.ParamBatchJobID, "b1"))
	require.NoError(t, err)
	assert.Len(t, batch, 1)

	require.NoError(t, srv.Delete(ctx, "c2"))
	assert.ErrorIs(t, srv.Delete(ctx, "c2"), dao.ErrNotFound)
}
