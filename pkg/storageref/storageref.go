// Package storageref handles opaque storage references embedded in document
// link and image targets. Persisted content always carries the opaque
// `media:` form; the storage collaborator rewrites it into a time-limited
// signed URL only at render time, outside this core. Parsers therefore fold
// any already-signed URL they encounter back into the opaque form so the
// signed variant never leaks into storage.
package storageref

import (
	"net/url"
	"strings"
)

// Scheme is the custom URL scheme of an opaque storage reference.
const Scheme = "media"

// refParam is the query parameter under which the signing service carries the
// original opaque reference inside a signed URL.
const refParam = "ref"

// IsOpaque reports whether ref is an opaque storage reference.
func IsOpaque(ref string) bool {
	return strings.HasPrefix(ref, Scheme+":")
}

// IsSigned reports whether ref is a signed URL carrying an opaque reference.
func IsSigned(ref string) bool {
	return signedRef(ref) != ""
}

// Canonical returns the persistable form of ref: opaque references and plain
// URLs pass through unchanged, signed URLs collapse to the opaque reference
// they carry.
func Canonical(ref string) string {
	if ref == "" || IsOpaque(ref) {
		return ref
	}
	if opaque := signedRef(ref); opaque != "" {
		return opaque
	}
	return ref
}

func signedRef(ref string) string {
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	v := u.Query().Get(refParam)
	if IsOpaque(v) {
		return v
	}
	return ""
}
