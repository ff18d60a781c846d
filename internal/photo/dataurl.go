// Package photo turns image files into the data URLs stored as photo_url and
// renders small terminal previews of them.
package photo

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage is returned for anything whose MIME type is not image/*.
var ErrNotImage = errors.New("not an image")

const dataPrefix = "data:"

// IsImageMIME reports whether a MIME type names an image.
func IsImageMIME(mime string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mime)), "image/")
}

// Encode sniffs data and returns its base64 data URL. Non-images are
// rejected with ErrNotImage.
func Encode(data []byte) (string, error) {
	mime := mimetype.Detect(data).String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !IsImageMIME(mime) {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mime)
	}
	return dataPrefix + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// FromFile reads path and encodes it.
func FromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	return Encode(data)
}

// FromInput accepts what a terminal hands over on drop or paste: a file path
// (possibly quoted, shell-escaped or a file:// URL) or an inline data URL.
func FromInput(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, dataPrefix) {
		mime, _, err := ParseDataURL(s)
		if err != nil {
			return "", err
		}
		if !IsImageMIME(mime) {
			return "", fmt.Errorf("%w: %s", ErrNotImage, mime)
		}
		return s, nil
	}
	path := cleanDroppedPath(s)
	if path == "" {
		return "", fmt.Errorf("%w: empty input", ErrNotImage)
	}
	return FromFile(path)
}

// ParseDataURL splits a base64 data URL into MIME type and payload.
func ParseDataURL(s string) (string, []byte, error) {
	if !strings.HasPrefix(s, dataPrefix) {
		return "", nil, fmt.Errorf("not a data url")
	}
	meta, payload, ok := strings.Cut(s[len(dataPrefix):], ",")
	if !ok {
		return "", nil, fmt.Errorf("data url without payload")
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !isBase64 {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, fmt.Errorf("data url payload: %w", err)
		}
		return mime, []byte(unescaped), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data url payload: %w", err)
	}
	return mime, data, nil
}

func cleanDroppedPath(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "file://") {
		if u, err := url.Parse(s); err == nil {
			s = u.Path
		}
	}
	// shells escape spaces and parentheses in dragged paths
	s = strings.NewReplacer(`\ `, " ", `\(`, "(", `\)`, ")").Replace(s)
	if rest, ok := strings.CutPrefix(s, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			s = filepath.Join(home, rest)
		}
	}
	return s
}
