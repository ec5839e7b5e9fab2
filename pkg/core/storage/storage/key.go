package storage

import (
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/scienceol/chemdb/pkg/common/uuid"
)

// keyFromRef accepts "/<bucket>/<key...>" or an absolute URL whose path has that
// shape. Anything else has no key in bucket.
func keyFromRef(bucket, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || bucket == "" {
		return "", false
	}

	p := ref
	if !strings.HasPrefix(ref, "/") {
		u, err := url.Parse(ref)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return "", false
		}
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	parts := strings.Split(p, "/")
	if len(parts) < 3 || parts[0] != "" || parts[1] != bucket {
		return "", false
	}
	key := strings.Join(parts[2:], "/")
	if key == "" || strings.HasSuffix(key, "/") {
		return "", false
	}
	return key, true
}

func refFromKey(bucket, key string) string {
	return "/" + bucket + "/" + key
}

// newKey lays uploads out by month: uploads/2026/01/<uuid>.png
func newKey(now time.Time, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 16 || strings.ContainsAny(ext, " /\\") {
		ext = ""
	}
	return path.Join("uploads", now.Format("2006"), now.Format("01"), uuid.NewV4().String()+ext)
}
