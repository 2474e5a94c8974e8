package services

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
)

// Image is a decoded data URI.
type Image struct {
	ContentType string
	Ext         string
	Data        []byte
}

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ParseDataURI decodes data:image/<type>;base64,<payload>. The declared type
// must match the sniffed content.
func ParseDataURI(s string) (*Image, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !IsDataURI(s) || !ok {
		return nil, errs.Validation("image", "must be a data URI or a URL")
	}

	contentType, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return nil, errs.Validation("image", "must be base64 encoded")
	}
	ext, known := imageExtensions[strings.ToLower(contentType)]
	if !known {
		return nil, errs.Validation("image", "unsupported image type %q", contentType)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > config.MaxImageSize {
		return nil, errs.Validation("image", "must be at most %d bytes", config.MaxImageSize)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errs.Validation("image", "invalid base64 payload")
	}
	if len(data) == 0 {
		return nil, errs.Validation("image", "must not be empty")
	}
	if sniffed := http.DetectContentType(data); !strings.HasPrefix(sniffed, "image/") {
		return nil, errs.Validation("image", "content is %s, not an image", sniffed)
	}

	return &Image{ContentType: strings.ToLower(contentType), Ext: ext, Data: data}, nil
}

// isRemoteURL reports whether s is an absolute http(s) URL kept as is.
func isRemoteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// objectName builds a fresh file name under root for an image.
func objectName(root string, img *Image) string {
	return path.Join(strings.Trim(root, "/"), uuid.NewString()+"."+img.Ext)
}
