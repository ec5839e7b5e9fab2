package excel

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	resty "github.com/go-resty/resty/v2"
	"github.com/scienceol/chemdb/pkg/core/storage"
)

var errUnresolvable = errors.New("reference cannot be resolved")

// embeddable maps the image types a workbook can hold to their extension.
var embeddable = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
}

type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// Embeddable reports whether the bytes can be placed in a sheet as a picture.
func (i *Image) Embeddable() bool {
	return i != nil && i.Ext != "" && len(i.Data) > 0
}

// Resolver turns a file reference into bytes: data URIs are decoded, absolute
// URLs fetched, bucket paths read from the object store.
type Resolver struct {
	files     storage.Service
	client    *resty.Client
	publicURL string
}

func NewResolver(files storage.Service, fetchTimeout time.Duration, publicURL string) *Resolver {
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	return &Resolver{
		files:     files,
		client:    resty.New().SetTimeout(fetchTimeout).SetRetryCount(1),
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (r *Resolver) Resolve(ctx context.Context, ref string) (*Image, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, errUnresolvable
	case strings.HasPrefix(ref, "data:"):
		data, ct, err := decodeDataURI(ref)
		if err != nil {
			return nil, err
		}
		return classify(ref, ct, data), nil
	case isAbsoluteURL(ref):
		res, err := r.client.R().SetContext(ctx).Get(ref)
		if err != nil {
			return nil, err
		}
		if res.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", ref, res.StatusCode())
		}
		return classify(ref, res.Header().Get("Content-Type"), res.Body()), nil
	case r.files != nil:
		if _, ok := r.files.KeyFromRef(ref); !ok {
			return nil, errUnresolvable
		}
		obj, err := r.files.Fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		return classify(ref, obj.ContentType, obj.Data), nil
	}
	return nil, errUnresolvable
}

// Link is the address written into hyperlink cells, empty when there is none.
func (r *Resolver) Link(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case isAbsoluteURL(ref):
		return ref
	case strings.HasPrefix(ref, "/") && r.publicURL != "":
		return r.publicURL + ref
	}
	return ""
}

func isAbsoluteURL(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// decodeDataURI handles data:[<mediatype>][;base64],<data>.
func decodeDataURI(ref string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, "", errors.New("malformed data uri")
	}
	isBase64 := strings.HasSuffix(meta, ";base64")
	ct := strings.TrimSuffix(meta, ";base64")
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}
	if !isBase64 {
		data, err := url.PathUnescape(payload)
		return []byte(data), ct, err
	}
	payload = strings.TrimSpace(payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); err != nil {
			return nil, "", fmt.Errorf("decode data uri: %w", err)
		}
	}
	return data, ct, nil
}

// classify trusts the declared type, then the file extension, then the bytes.
func classify(ref, contentType string, data []byte) *Image {
	img := &Image{Data: data}
	candidates := []string{}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		candidates = append(candidates, mt)
	}
	if !strings.HasPrefix(ref, "data:") {
		p := ref
		if u, err := url.Parse(ref); err == nil {
			p = u.Path
		}
		if ct := mime.TypeByExtension(strings.ToLower(path.Ext(p))); ct != "" {
			if mt, _, err := mime.ParseMediaType(ct); err == nil {
				candidates = append(candidates, mt)
			}
		}
	}
	if len(data) > 0 {
		candidates = append(candidates, http.DetectContentType(data))
	}
	for _, ct := range candidates {
		if ct == "" || ct == "application/octet-stream" {
			continue
		}
		img.ContentType = ct
		img.Ext = embeddable[ct]
		break
	}
	return img
}
