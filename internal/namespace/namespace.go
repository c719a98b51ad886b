// Package namespace defines the object key layout that scopes every stored
// object to its owning account. The key prefix is the ownership proof: all
// objects for an account live under users/{accountID}/ and no separate ACL
// record exists.
package namespace

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Root is the first segment of every object key.
const Root = "users"

// ErrInvalidKeyFormat indicates an object key that does not follow the
// users/{accountID}/{objectID} layout.
var ErrInvalidKeyFormat = errors.New("invalid object key format")

// Key is the parsed form of an object key. It is constructed once at the
// upload or listing boundary and threaded through instead of re-splitting the
// raw string at every use site.
type Key struct {
	AccountID string
	ObjectID  string
}

// String reassembles the full object key.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", Root, k.AccountID, k.ObjectID)
}

// PrefixFor returns the key prefix owning all of an account's objects.
func PrefixFor(accountID string) string {
	return fmt.Sprintf("%s/%s/", Root, accountID)
}

// Parse validates an object key and extracts its owner and object id.
func Parse(objectKey string) (Key, error) {
	parts := strings.SplitN(objectKey, "/", 3)
	if len(parts) < 3 || parts[0] != Root || parts[1] == "" || parts[2] == "" {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKeyFormat, objectKey)
	}
	return Key{AccountID: parts[1], ObjectID: parts[2]}, nil
}

// Owner returns the account id owning the given object key.
func Owner(objectKey string) (string, error) {
	key, err := Parse(objectKey)
	if err != nil {
		return "", err
	}
	return key.AccountID, nil
}

// ObjectKeyFor builds the storage key for a new upload:
// users/{accountID}/{unixMillis}_{sanitizedName}. Collisions are accepted as
// negligible (millisecond timestamp plus original name); no probing is done.
func ObjectKeyFor(accountID, originalName string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%d_%s", Root, accountID, now.UnixMilli(), SanitizeFilename(originalName))
}

// SanitizeFilename replaces every character outside [A-Za-z0-9-_] in the base
// name with an underscore, one for one. The extension is reattached verbatim,
// case included, so stored keys keep a recognizable suffix.
func SanitizeFilename(name string) string {
	base := name
	ext := ""
	if idx := strings.LastIndex(name, "."); idx > -1 {
		base = name[:idx]
		ext = name[idx+1:]
	}

	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)

	if ext == "" {
		return clean
	}
	return clean + "." + ext
}
