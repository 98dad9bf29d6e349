package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/linmei/hearthside/pkg/blob"
	"github.com/linmei/hearthside/pkg/config"
	"github.com/linmei/hearthside/pkg/contentid"
	"github.com/linmei/hearthside/pkg/frontmatter"
)

const markdownContentType = "text/markdown; charset=utf-8"

// PostRepository serves the markdown-bodied kinds. One instance per key
// root: "Blogs" for the blog, "Recipes" for recipes. The key layout is
// fixed and must not change, it addresses existing content:
//
//	{root}/{id}/post.mdx
//	{root}/{id}/images/cover.jpg
//	{root}/{id}/images/...
type PostRepository struct {
	store  blob.Store // nil when the store is not configured
	cfg    *config.Config
	root   string
	logger *slog.Logger
}

// NewBlogRepository creates the repository for blog posts.
func NewBlogRepository(store blob.Store, cfg *config.Config) *PostRepository {
	return newPostRepository(store, cfg, "Blogs")
}

// NewRecipeRepository creates the repository for recipes.
func NewRecipeRepository(store blob.Store, cfg *config.Config) *PostRepository {
	return newPostRepository(store, cfg, "Recipes")
}

func newPostRepository(store blob.Store, cfg *config.Config, root string) *PostRepository {
	return &PostRepository{
		store:  store,
		cfg:    cfg,
		root:   root,
		logger: slog.Default().With("component", "content", "root", root),
	}
}

func (r *PostRepository) docKey(id string) string {
	return r.root + "/" + id + "/post.mdx"
}

func (r *PostRepository) imagesPrefix(id string) string {
	return r.root + "/" + id + "/images/"
}

// List enumerates every document under the root, applies the draft
// filter, sorts by date descending and paginates. Documents that fail to
// parse are skipped and logged, never fatal for the listing.
func (r *PostRepository) List(ctx context.Context, opts ListOptions) (Page[*Post], error) {
	if r.store == nil {
		return Page[*Post]{PageCount: 1}, nil
	}

	keys, err := r.store.List(ctx, r.root+"/")
	if err != nil {
		return Page[*Post]{}, fmt.Errorf("list %s: %w", r.root, err)
	}

	var posts []*Post
	for _, key := range keys {
		if !strings.HasSuffix(key, "/post.mdx") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(key, r.root+"/"), "/post.mdx")

		post, err := r.fetch(ctx, id)
		if err != nil {
			r.logger.Warn("skipping unreadable document", "key", key, "error", err)
			continue
		}
		// Blog/Recipe drafts are opt-in: unpublished stays hidden unless
		// the caller asked for drafts.
		if !post.Published && !opts.IncludeDrafts {
			continue
		}
		posts = append(posts, post)
	}

	// ISO-8601 dates are fixed width, so bytewise comparison orders them.
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})

	return paginate(posts, opts), nil
}

// Get fetches one document by id. Returns nil, nil when it does not exist.
func (r *PostRepository) Get(ctx context.Context, id string) (*Post, error) {
	if r.store == nil {
		return nil, nil
	}
	post, err := r.fetch(ctx, id)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) fetch(ctx context.Context, id string) (*Post, error) {
	data, _, err := r.store.Get(ctx, r.docKey(id))
	if err != nil {
		return nil, err
	}

	meta, body, err := frontmatter.Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.docKey(id), err)
	}

	post := &Post{
		ID:         id,
		Title:      meta.Title,
		Date:       meta.Date,
		Excerpt:    meta.Excerpt,
		Body:       body,
		CookTime:   meta.CookTime,
		Difficulty: meta.Difficulty,
		Servings:   meta.Servings,
		Category:   meta.Category,
		Tags:       meta.Tags,
		Published:  meta.Published,
	}
	post.CoverImage = r.resolveCover(ctx, id, meta.CoverImage)
	return post, nil
}

// resolveCover applies the cover resolution rules: an explicit reference
// is used verbatim; otherwise the images/ subprefix is probed for a
// cover.* file, falling back to the first image in listing order. The
// result is a public URL, or "" when no public host is configured (the
// caller then reads through the authenticated proxy).
func (r *PostRepository) resolveCover(ctx context.Context, id, explicit string) string {
	if explicit != "" {
		return explicit
	}

	keys, err := r.store.List(ctx, r.imagesPrefix(id))
	if err != nil {
		r.logger.Warn("cover probe failed", "id", id, "error", err)
		return ""
	}

	var first, cover string
	for _, key := range keys {
		if !isImageKey(key) {
			continue
		}
		if first == "" {
			first = key
		}
		if strings.Contains(strings.ToLower(key), "/cover.") {
			cover = key
			break
		}
	}
	if cover == "" {
		cover = first
	}
	if cover == "" {
		return ""
	}
	return r.cfg.PublicURL(cover)
}

// Upsert writes the document unconditionally: last write wins, no merge
// with prior content. The effective id is the explicit post.ID if set,
// else derived deterministically from slug, else freshly generated; it is
// returned so a caller that omitted the id learns it.
func (r *PostRepository) Upsert(ctx context.Context, slug string, post *Post) (string, error) {
	if r.store == nil {
		return "", ErrStoreNotConfigured
	}

	if post.Published {
		var missing []string
		if post.Title == "" {
			missing = append(missing, "title")
		}
		if post.Date == "" {
			missing = append(missing, "date")
		}
		if len(missing) > 0 {
			return "", &ValidationError{Missing: missing}
		}
	}

	id := contentid.OrDerive(post.ID, slug)

	doc, err := frontmatter.Encode(frontmatter.Meta{
		Title:      post.Title,
		Date:       post.Date,
		Excerpt:    post.Excerpt,
		CookTime:   post.CookTime,
		Difficulty: post.Difficulty,
		Servings:   post.Servings,
		Category:   post.Category,
		Tags:       post.Tags,
		Published:  post.Published,
		CoverImage: post.CoverImage,
	}, post.Body)
	if err != nil {
		return "", err
	}

	if err := r.store.Put(ctx, r.docKey(id), []byte(doc), markdownContentType); err != nil {
		return "", err
	}
	return id, nil
}

// UploadCover stores the singular cover image. The key is always
// images/cover.jpg; ingestion standardizes on JPEG before the bytes get
// here. Returns the public URL, or the authenticated proxy path when no
// public host is configured.
func (r *PostRepository) UploadCover(ctx context.Context, id string, data []byte, contentType string) (string, error) {
	if r.store == nil {
		return "", ErrStoreNotConfigured
	}
	key := r.imagesPrefix(id) + "cover.jpg"
	if err := r.store.Put(ctx, key, data, contentType); err != nil {
		return "", err
	}
	if u := r.cfg.PublicURL(key); u != "" {
		return u, nil
	}
	return "/api/admin/images/" + key, nil
}

// Delete removes the document and every co-located image by deleting the
// whole {root}/{id}/ prefix. No rollback on partial failure; the store's
// error propagates.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	if r.store == nil {
		return ErrStoreNotConfigured
	}
	_, err := r.store.DeletePrefix(ctx, r.root+"/"+id+"/")
	return err
}

// RawImage reads stored image bytes by full key for the authenticated
// proxy. The key must live under this repository's root.
func (r *PostRepository) RawImage(ctx context.Context, key string) ([]byte, string, error) {
	if r.store == nil {
		return nil, "", ErrStoreNotConfigured
	}
	if !strings.HasPrefix(key, r.root+"/") {
		return nil, "", fmt.Errorf("key %s: %w", key, ErrNotFound)
	}
	data, contentType, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, "", err
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}

// Slugs returns every document id under the root, drafts included. Used
// for static page generation.
func (r *PostRepository) Slugs(ctx context.Context) ([]string, error) {
	if r.store == nil {
		return nil, nil
	}
	keys, err := r.store.List(ctx, r.root+"/")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.root, err)
	}
	var ids []string
	for _, key := range keys {
		if strings.HasSuffix(key, "/post.mdx") {
			ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(key, r.root+"/"), "/post.mdx"))
		}
	}
	return ids, nil
}
