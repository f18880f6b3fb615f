// Package posts defines the post and comment records exchanged with the
// remote resource store, together with the typed failures its client raises.
package posts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// CacheKey is the query cache key holding the post list view.
	CacheKey = "posts"
	// CommentsCacheKey is invalidated after a comment is created.
	CommentsCacheKey = "comments"
)

// ID is an integer identifier that decodes from either a JSON number or a
// JSON string holding an integer. The demo store echoes form values back as
// strings, so both shapes appear on the wire.
type ID int64

// UnmarshalJSON accepts 7, "7", 7.0 and null. Fractional or out of range
// values are rejected.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*id = 0
			return nil
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return fmt.Errorf("decode id %q: %w", raw, err)
		}
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return fmt.Errorf("decode id %q: not an integer in range", raw)
		}
		n = int64(f)
	}
	*id = ID(n)
	return nil
}

// String renders the id in base 10.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Post is one record of the remote post collection.
type Post struct {
	ID     ID     `json:"id,omitempty"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID ID     `json:"userId"`
}

// Draft carries the editable fields of a post. UserID keeps the literal form
// input and is sent as a JSON string.
type Draft struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID string `json:"userId"`
}

// UpdateDraft targets an existing post.
type UpdateDraft struct {
	PostID string `json:"-"`
	Draft
}

// DeleteDraft targets the post to remove.
type DeleteDraft struct {
	PostID string `json:"-"`
}

// Deleted echoes the id of a removed post.
type Deleted struct {
	ID ID `json:"id"`
}

// Comment is a write-only comment record.
type Comment struct {
	ID     ID     `json:"id,omitempty"`
	Body   string `json:"body"`
	PostID ID     `json:"postId"`
}

// CommentDraft carries the comment form fields. PostID keeps the literal form
// input and is sent as a JSON string.
type CommentDraft struct {
	Body   string `json:"body"`
	PostID string `json:"postId"`
}

// FilterByUser returns the posts authored by userID. A nil userID keeps every
// post. The result never aliases items.
func FilterByUser(items []Post, userID *ID) []Post {
	out := make([]Post, 0, len(items))
	for _, item := range items {
		if userID == nil || item.UserID == *userID {
			out = append(out, item)
		}
	}
	return out
}

// ParseUserFilter converts the filter input into a user id. Blank or
// non-numeric input means "no filter".
func ParseUserFilter(raw string) *ID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	id := ID(n)
	return &id
}
