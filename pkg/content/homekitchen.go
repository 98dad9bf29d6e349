package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/linmei/hearthside/pkg/blob"
	"github.com/linmei/hearthside/pkg/config"
)

const jsonContentType = "application/json"

// HomeKitchenRepository serves the holiday cooking posts, stored as JSON
// documents with ordered image galleries:
//
//	HomeKitchen/{slug}/post.json
//	HomeKitchen/{slug}/images/image-{index}.{ext}
type HomeKitchenRepository struct {
	store  blob.Store
	cfg    *config.Config
	logger *slog.Logger
}

const homeKitchenRoot = "HomeKitchen"

// NewHomeKitchenRepository creates the repository for home kitchen posts.
func NewHomeKitchenRepository(store blob.Store, cfg *config.Config) *HomeKitchenRepository {
	return &HomeKitchenRepository{
		store:  store,
		cfg:    cfg,
		logger: slog.Default().With("component", "content", "root", homeKitchenRoot),
	}
}

func (r *HomeKitchenRepository) docKey(slug string) string {
	return homeKitchenRoot + "/" + slug + "/post.json"
}

func (r *HomeKitchenRepository) imageKey(slug string, index int, ext string) string {
	return fmt.Sprintf("%s/%s/images/image-%d.%s", homeKitchenRoot, slug, index, ext)
}

// List enumerates all posts, filters drafts and (optionally) by holiday,
// sorts date-descending and paginates.
func (r *HomeKitchenRepository) List(ctx context.Context, opts ListOptions) (Page[*HomeKitchenPost], error) {
	if r.store == nil {
		return Page[*HomeKitchenPost]{PageCount: 1}, nil
	}

	keys, err := r.store.List(ctx, homeKitchenRoot+"/")
	if err != nil {
		return Page[*HomeKitchenPost]{}, fmt.Errorf("list %s: %w", homeKitchenRoot, err)
	}

	var posts []*HomeKitchenPost
	for _, key := range keys {
		if !strings.HasSuffix(key, "/post.json") {
			continue
		}
		post, err := r.fetchKey(ctx, key)
		if err != nil {
			r.logger.Warn("skipping unreadable document", "key", key, "error", err)
			continue
		}
		// Opt-out draft rule: only an explicit published=false hides.
		if !post.Visible() && !opts.IncludeDrafts {
			continue
		}
		if opts.Holiday != "" && post.Holiday != opts.Holiday {
			continue
		}
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})

	return paginate(posts, opts), nil
}

// Get fetches one post by slug. Returns nil, nil when it does not exist.
func (r *HomeKitchenRepository) Get(ctx context.Context, slug string) (*HomeKitchenPost, error) {
	if r.store == nil {
		return nil, nil
	}
	post, err := r.fetchKey(ctx, r.docKey(slug))
	if errors.Is(err, blob.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *HomeKitchenRepository) fetchKey(ctx context.Context, key string) (*HomeKitchenPost, error) {
	data, _, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var post HomeKitchenPost
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	r.resolveImageURLs(&post)
	return &post, nil
}

// resolveImageURLs rewrites gallery entries to public URLs. Entries that
// already carry an absolute URL are kept verbatim; relative entries map
// to the conventional image-{index}.jpg key. When no public host is
// configured the stored entry stays as-is and the caller reads through
// the proxy.
func (r *HomeKitchenRepository) resolveImageURLs(post *HomeKitchenPost) {
	for i, img := range post.Images {
		if strings.HasPrefix(img, "http") {
			continue
		}
		key := r.imageKey(post.Slug, i, "jpg")
		if u := r.cfg.PublicURL(key); u != "" {
			post.Images[i] = u
		}
	}
}

// Upsert overwrites the post document. Images are uploaded separately by
// index before the final save; the document only records the list.
func (r *HomeKitchenRepository) Upsert(ctx context.Context, post *HomeKitchenPost) error {
	if r.store == nil {
		return ErrStoreNotConfigured
	}

	var missing []string
	if post.Slug == "" {
		missing = append(missing, "slug")
	}
	if post.Visible() {
		if post.Title == "" {
			missing = append(missing, "title")
		}
		if post.Date == "" {
			missing = append(missing, "date")
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	if err := validateHomeKitchenDoc(post); err != nil {
		return err
	}

	data, err := json.MarshalIndent(post, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", post.Slug, err)
	}
	return r.store.Put(ctx, r.docKey(post.Slug), data, jsonContentType)
}

// UploadImage stores one gallery image at its index. The extension
// follows the declared content type (jpg when it carries none). Returns
// the public URL, or the proxy path when no public host is configured.
func (r *HomeKitchenRepository) UploadImage(ctx context.Context, slug string, index int, data []byte, contentType string) (string, error) {
	if r.store == nil {
		return "", ErrStoreNotConfigured
	}
	key := r.imageKey(slug, index, extensionForContentType(contentType))
	if err := r.store.Put(ctx, key, data, contentType); err != nil {
		return "", err
	}
	if u := r.cfg.PublicURL(key); u != "" {
		return u, nil
	}
	return fmt.Sprintf("/api/admin/home-kitchen/image/%s/%d", slug, index), nil
}

// Image reads one gallery image for the authenticated proxy route.
func (r *HomeKitchenRepository) Image(ctx context.Context, slug string, index int) ([]byte, string, error) {
	if r.store == nil {
		return nil, "", ErrStoreNotConfigured
	}
	data, contentType, err := r.store.Get(ctx, r.imageKey(slug, index, "jpg"))
	if err != nil {
		return nil, "", err
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}

// Delete removes the whole {slug}/ prefix: document plus gallery.
func (r *HomeKitchenRepository) Delete(ctx context.Context, slug string) error {
	if r.store == nil {
		return ErrStoreNotConfigured
	}
	_, err := r.store.DeletePrefix(ctx, homeKitchenRoot+"/"+slug+"/")
	return err
}

// CountByHoliday buckets published posts by holiday name. Posts without
// a holiday count under "Other".
func (r *HomeKitchenRepository) CountByHoliday(ctx context.Context) (map[string]int, error) {
	page, err := r.List(ctx, ListOptions{PageSize: maxPageSize})
	if err != nil {
		return nil, err
	}
	// One page of 50 covers the site today; walk the rest if it grows.
	counts := make(map[string]int)
	for p := 1; ; p++ {
		for _, post := range page.Items {
			holiday := post.Holiday
			if holiday == "" {
				holiday = "Other"
			}
			counts[holiday]++
		}
		if p >= page.PageCount {
			break
		}
		page, err = r.List(ctx, ListOptions{Page: p + 1, PageSize: maxPageSize})
		if err != nil {
			return nil, err
		}
	}
	return counts, nil
}
