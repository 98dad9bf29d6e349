package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/linmei/hearthside/pkg/blob"
	"github.com/linmei/hearthside/pkg/config"
)

const (
	activitiesIndexKey    = "activities/index.json"
	activitiesImagePrefix = "activities/images/"
)

// ActivityRepository serves the activity carousel. Unlike the other
// kinds, all activities live in one JSON array document; every write is
// a read-modify-write of the whole array.
//
// The mutex serializes writers within this process only. Two server
// instances can still race on the index and the last write silently wins;
// that limitation is inherited from the storage layout and deliberately
// not papered over with conditional writes.
type ActivityRepository struct {
	store  blob.Store
	cfg    *config.Config
	logger *slog.Logger

	mu sync.Mutex
}

// NewActivityRepository creates the repository for activities.
func NewActivityRepository(store blob.Store, cfg *config.Config) *ActivityRepository {
	return &ActivityRepository{
		store:  store,
		cfg:    cfg,
		logger: slog.Default().With("component", "content", "root", "activities"),
	}
}

// List returns activities sorted date-descending. A missing index reads
// as an empty carousel, not an error.
func (r *ActivityRepository) List(ctx context.Context, includeDrafts bool) ([]Activity, error) {
	if r.store == nil {
		return nil, nil
	}
	activities, err := r.readIndex(ctx)
	if err != nil {
		return nil, err
	}

	var filtered []Activity
	for _, a := range activities {
		if !a.Published && !includeDrafts {
			continue
		}
		filtered = append(filtered, a)
	}

	// Sorted by date; the persisted order field is vestigial and
	// intentionally not consulted.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date > filtered[j].Date
	})
	return filtered, nil
}

func (r *ActivityRepository) readIndex(ctx context.Context) ([]Activity, error) {
	data, _, err := r.store.Get(ctx, activitiesIndexKey)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var activities []Activity
	if err := json.Unmarshal(data, &activities); err != nil {
		return nil, fmt.Errorf("parse %s: %w", activitiesIndexKey, err)
	}
	return activities, nil
}

func (r *ActivityRepository) writeIndex(ctx context.Context, activities []Activity) error {
	data, err := json.MarshalIndent(activities, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", activitiesIndexKey, err)
	}
	return r.store.Put(ctx, activitiesIndexKey, data, jsonContentType)
}

// update performs one read-modify-write cycle of the index under the
// process-local mutex.
func (r *ActivityRepository) update(ctx context.Context, transform func([]Activity) ([]Activity, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activities, err := r.readIndex(ctx)
	if err != nil {
		return err
	}
	next, err := transform(activities)
	if err != nil {
		return err
	}
	return r.writeIndex(ctx, next)
}

// Upsert replaces the activity with the same id, or appends when no id
// matches. The id must be set (find-by-id decides update vs append).
func (r *ActivityRepository) Upsert(ctx context.Context, activity Activity) error {
	if r.store == nil {
		return ErrStoreNotConfigured
	}

	var missing []string
	if activity.ID == "" {
		missing = append(missing, "id")
	}
	if activity.Published {
		if activity.Title == "" {
			missing = append(missing, "title")
		}
		if activity.Date == "" {
			missing = append(missing, "date")
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	if err := validateActivityDoc(&activity); err != nil {
		return err
	}

	return r.update(ctx, func(activities []Activity) ([]Activity, error) {
		for i := range activities {
			if activities[i].ID == activity.ID {
				activities[i] = activity
				return activities, nil
			}
		}
		return append(activities, activity), nil
	})
}

// Delete removes the activity from the index and best-effort deletes its
// image. A missing activity is ErrNotFound.
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	if r.store == nil {
		return ErrStoreNotConfigured
	}

	return r.update(ctx, func(activities []Activity) ([]Activity, error) {
		idx := -1
		for i := range activities {
			if activities[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("activity %s: %w", id, ErrNotFound)
		}

		// Image cleanup is best effort; a failed image delete must not
		// keep the activity in the index.
		if err := r.store.Delete(ctx, activitiesImagePrefix+id+".jpg"); err != nil {
			r.logger.Warn("failed to delete activity image", "id", id, "error", err)
		}

		return append(activities[:idx], activities[idx+1:]...), nil
	})
}

// UploadImage stores the activity's single image. The filename stem is
// the activity id and the stored content type is forced to image/jpeg:
// ingestion has already normalized the bytes.
func (r *ActivityRepository) UploadImage(ctx context.Context, id string, data []byte) (string, error) {
	if r.store == nil {
		return "", ErrStoreNotConfigured
	}
	filename := id + ".jpg"
	key := activitiesImagePrefix + filename
	if err := r.store.Put(ctx, key, data, "image/jpeg"); err != nil {
		return "", err
	}
	if u := r.cfg.PublicURL(key); u != "" {
		return u, nil
	}
	return "/api/admin/activities/image/" + filename, nil
}

// Image reads one activity image for the authenticated proxy route.
func (r *ActivityRepository) Image(ctx context.Context, filename string) ([]byte, string, error) {
	if r.store == nil {
		return nil, "", ErrStoreNotConfigured
	}
	data, contentType, err := r.store.Get(ctx, activitiesImagePrefix+filename)
	if err != nil {
		return nil, "", err
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}
