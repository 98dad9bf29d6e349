package content

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linmei/hearthside/pkg/blob"
	"github.com/linmei/hearthside/pkg/config"
)

func newTestActivities(t *testing.T) (*ActivityRepository, *blob.MemStore) {
	t.Helper()
	store := blob.NewMemStore()
	return NewActivityRepository(store, testConfig()), store
}

func TestActivityUpsert_AppendThenReplace(t *testing.T) {
	repo, store := newTestActivities(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, Activity{ID: "a1", Title: "Farmers market", Date: "2024-04-01", Published: true}))
	require.NoError(t, repo.Upsert(ctx, Activity{ID: "a2", Title: "Cherry picking", Date: "2024-05-01", Published: true}))

	// Same id replaces in place, no duplicate entry.
	require.NoError(t, repo.Upsert(ctx, Activity{ID: "a1", Title: "Farmers market, revisited", Date: "2024-04-02", Published: true}))

	data, _, err := store.Get(ctx, "activities/index.json")
	require.NoError(t, err)
	var raw []Activity
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)

	activities, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "a2", activities[0].ID)
	assert.Equal(t, "Farmers market, revisited", activities[1].Title)
}

func TestActivityUpsert_Validation(t *testing.T) {
	repo, _ := newTestActivities(t)
	ctx := context.Background()

	var validation *ValidationError
	err := repo.Upsert(ctx, Activity{Published: true})
	require.ErrorAs(t, err, &validation)
	assert.ElementsMatch(t, []string{"id", "title", "date"}, validation.Missing)

	// Drafts need only the id.
	assert.NoError(t, repo.Upsert(ctx, Activity{ID: "draft"}))
}

func TestActivityList_MissingIndexIsEmpty(t *testing.T) {
	repo, _ := newTestActivities(t)
	activities, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestActivityList_DraftsAndSort(t *testing.T) {
	repo, _ := newTestActivities(t)
	ctx := context.Background()

	// Order values deliberately contradict the dates; listing must follow
	// the dates.
	require.NoError(t, repo.Upsert(ctx, Activity{ID: "old", Title: "Old", Date: "2023-01-01", Order: 1, Published: true}))
	require.NoError(t, repo.Upsert(ctx, Activity{ID: "new", Title: "New", Date: "2024-06-01", Order: 9, Published: true}))
	require.NoError(t, repo.Upsert(ctx, Activity{ID: "mid", Title: "Mid", Date: "2023-09-15", Order: 5}))

	public, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, []string{"new", "old"}, []string{public[0].ID, public[1].ID})

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestActivityDelete(t *testing.T) {
	repo, store := newTestActivities(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, Activity{ID: "gone", Title: "Gone", Date: "2024-02-02", Published: true}))
	_, err := repo.UploadImage(ctx, "gone", []byte("jpeg"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "gone"))

	activities, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, activities)

	_, _, err = store.Get(ctx, "activities/images/gone.jpg")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestActivityDelete_MissingIsNotFound(t *testing.T) {
	repo, _ := newTestActivities(t)
	err := repo.Delete(context.Background(), "never-existed")
	assert.ErrorIs(t, err, ErrNotFound)
}

// failingDeleteStore fails every single-key delete, simulating an
// object store that rejects the image cleanup.
type failingDeleteStore struct {
	*blob.MemStore
}

func (s *failingDeleteStore) Delete(context.Context, string) error {
	return errors.New("delete rejected")
}

// A failed image cleanup must not keep the activity in the index.
func TestActivityDelete_SurvivesImageCleanupFailure(t *testing.T) {
	store := &failingDeleteStore{MemStore: blob.NewMemStore()}
	repo := NewActivityRepository(store, testConfig())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, Activity{ID: "imageless", Title: "T", Date: "2024-01-01", Published: true}))
	require.NoError(t, repo.Delete(ctx, "imageless"))

	activities, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestActivityUploadImage(t *testing.T) {
	repo, store := newTestActivities(t)
	ctx := context.Background()

	url, err := repo.UploadImage(ctx, "spring-picnic", []byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/activities/images/spring-picnic.jpg", url)

	// Stored type is forced to image/jpeg regardless of input.
	_, contentType, err := store.Get(ctx, "activities/images/spring-picnic.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	data, contentType, err := repo.Image(ctx, "spring-picnic.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestActivityUploadImage_ProxyFallback(t *testing.T) {
	repo := NewActivityRepository(blob.NewMemStore(), &config.Config{})
	url, err := repo.UploadImage(context.Background(), "x", []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, "/api/admin/activities/image/x.jpg", url)
}

func TestActivityUnconfiguredStore(t *testing.T) {
	repo := NewActivityRepository(nil, &config.Config{})
	ctx := context.Background()

	activities, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, activities)

	assert.ErrorIs(t, repo.Upsert(ctx, Activity{ID: "a"}), ErrStoreNotConfigured)
	assert.ErrorIs(t, repo.Delete(ctx, "a"), ErrStoreNotConfigured)
}
