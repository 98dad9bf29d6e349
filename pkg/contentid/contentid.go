// Package contentid derives stable content identifiers.
//
// Content was historically addressed by human slugs; ids derived from a
// slug must stay stable across runs so legacy content keeps its key prefix
// without a lookup table.
package contentid

import (
	"crypto/md5" //nolint:gosec // not used for security, only for stable id derivation
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FromSlug computes a deterministic UUID-shaped id from a slug:
// md5(slug) regrouped as 8-4-4-4-12 hex. Pure function of the slug.
func FromSlug(slug string) string {
	sum := md5.Sum([]byte(slug)) //nolint:gosec
	h := hex.EncodeToString(sum[:])
	return h[0:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:32]
}

// New returns a freshly generated random id in the same format.
// No uniqueness check against the store; collisions are treated as
// negligible.
func New() string {
	return uuid.NewString()
}

// IsID reports whether s already has the id shape: 8-4-4-4-12 hex
// groups. Admin clients echo a learned id back through the slug field,
// so upserts must recognize one to overwrite instead of re-deriving.
func IsID(s string) bool {
	if len(s) != 36 {
		return false
	}
	for i, r := range s {
		switch i {
		case 8, 13, 18, 23:
			if r != '-' {
				return false
			}
		default:
			if !isHexDigit(r) {
				return false
			}
		}
	}
	return true
}

func isHexDigit(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}

// OrDerive resolves the effective id for an upsert: an explicit id wins
// verbatim (trusted, not re-validated), otherwise the slug derivation,
// otherwise a fresh random id.
func OrDerive(explicit, slug string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if slug = strings.TrimSpace(slug); slug != "" {
		return FromSlug(slug)
	}
	return New()
}

// Slugify turns a title into a URL-safe slug: unicode marks stripped,
// lowercased, runs of non-alphanumerics collapsed to single hyphens.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, title)
	if err != nil {
		stripped = title
	}

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(stripped) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
