// Package media holds the pure rules for naming uploaded objects and for
// mapping between storage keys and public URLs.
package media

import (
	"errors"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// PublicObjectMarker precedes "<bucket>/<key>" in a backend-issued public URL.
	PublicObjectMarker = "/storage/v1/object/public/"
	// ObjectAPIPath is the authenticated object endpoint used for writes and deletes.
	ObjectAPIPath = "/storage/v1/object/"
	// EphemeralScheme marks client-only references that were never uploaded.
	EphemeralScheme = "blob:"

	defaultObjectName = "file"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ObjectName builds a storage key from the upload time and the client file
// name: "<unix millis>-<name>" with directory parts dropped and whitespace
// runs replaced by "_".
func ObjectName(now time.Time, originalName string) string {
	name := strings.ReplaceAll(originalName, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == "" {
		name = defaultObjectName
	}
	name = whitespaceRun.ReplaceAllString(name, "_")
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + name
}

// IsEphemeralReference reports whether ref is a local blob reference.
func IsEphemeralReference(ref string) bool {
	return strings.HasPrefix(strings.TrimSpace(ref), EphemeralScheme)
}

// ObjectKeyFromURL extracts the storage key from a public URL shaped
// "<origin>/storage/v1/object/public/<bucket>/<key>". The key is every
// segment after the bucket, so it may contain "/". ok is false when the URL
// does not have that shape.
func ObjectKeyFromURL(rawURL string) (key string, ok bool) {
	parts := strings.Split(rawURL, PublicObjectMarker)
	if len(parts) != 2 {
		return "", false
	}
	rest := parts[1]
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	segments := strings.Split(rest, "/")
	if len(segments) < 2 || segments[0] == "" {
		return "", false
	}
	keySegments := segments[1:]
	for i, s := range keySegments {
		if unescaped, err := url.PathUnescape(s); err == nil {
			keySegments[i] = unescaped
		}
	}
	key = strings.Join(keySegments, "/")
	if strings.Trim(key, "/") == "" {
		return "", false
	}
	return key, true
}

// PublicObjectURL is the inverse of ObjectKeyFromURL.
func PublicObjectURL(origin, bucket, key string) string {
	return strings.TrimRight(origin, "/") + PublicObjectMarker + url.PathEscape(bucket) + "/" + escapeKey(key)
}

// ObjectAPIURL is the authenticated REST endpoint for one object.
func ObjectAPIURL(origin, bucket, key string) string {
	return strings.TrimRight(origin, "/") + ObjectAPIPath + url.PathEscape(bucket) + "/" + escapeKey(key)
}

// ErrUnsafeKey is returned for keys that would address something outside
// the bucket once placed in a URL path.
var ErrUnsafeKey = errors.New("object key contains a relative path segment")

// ValidateKey rejects keys with "." or ".." segments or a leading "/".
func ValidateKey(key string) error {
	if strings.HasPrefix(key, "/") {
		return ErrUnsafeKey
	}
	for _, seg := range strings.Split(strings.ReplaceAll(key, "\\", "/"), "/") {
		if seg == "." || seg == ".." {
			return ErrUnsafeKey
		}
	}
	return nil
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
