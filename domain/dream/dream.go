// Package dream holds the records the DreamSpeak backend stores and serves.
package dream

import (
	"encoding/json"
	"time"
)

// DefaultUserID is the seeded user every unauthenticated request acts as
const DefaultUserID int64 = 1

// User is an account owning dreams
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// Dream is a recorded dream plus whatever analysis and imagery has been attached to it.
// Archetypes and symbols are free-text labels; no vocabulary is enforced.
type Dream struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Analysis   *string   `json:"analysis"`
	Archetypes []string  `json:"archetypes"`
	Symbols    []string  `json:"symbols"`
	ImageURL   *string   `json:"imageUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewDream is the creation payload; omitted optional fields stay null
type NewDream struct {
	UserID     int64
	Title      string
	Content    string
	Analysis   *string
	Archetypes []string
	Symbols    []string
	ImageURL   *string
}

// Optional is a patch field that tells an absent field apart from an explicit null.
// Set is true whenever the field appeared; a nil Value then means "clear".
type Optional[T any] struct {
	Set   bool
	Value *T
}

// SetTo returns an Optional holding v
func SetTo[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Clear returns an Optional that nulls the field
func Clear[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON marks the field present, treating null as a clear
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = nil
	if string(data) == "null" {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Patch carries the fields of a partial update. A nil Title or Content, or an unset
// Optional, means "leave unchanged". ID, UserID and CreatedAt are not patchable.
type Patch struct {
	Title      *string
	Content    *string
	Analysis   Optional[string]
	Archetypes Optional[[]string]
	Symbols    Optional[[]string]
	ImageURL   Optional[string]
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && !p.Analysis.Set &&
		!p.Archetypes.Set && !p.Symbols.Set && !p.ImageURL.Set
}

// Apply merges the patch into d (shallow, last write wins)
func (p Patch) Apply(d *Dream) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Content != nil {
		d.Content = *p.Content
	}
	if p.Analysis.Set {
		d.Analysis = cloneStringPtr(p.Analysis.Value)
	}
	if p.Archetypes.Set {
		d.Archetypes = cloneStringSlicePtr(p.Archetypes.Value)
	}
	if p.Symbols.Set {
		d.Symbols = cloneStringSlicePtr(p.Symbols.Value)
	}
	if p.ImageURL.Set {
		d.ImageURL = cloneStringPtr(p.ImageURL.Value)
	}
}

// Build turns a creation payload into a record with the given identity
func (n NewDream) Build(id int64, createdAt time.Time) *Dream {
	d := &Dream{
		ID:         id,
		UserID:     n.UserID,
		Title:      n.Title,
		Content:    n.Content,
		Archetypes: cloneStrings(n.Archetypes),
		Symbols:    cloneStrings(n.Symbols),
		CreatedAt:  createdAt,
	}
	if n.Analysis != nil {
		d.Analysis = StringPtr(*n.Analysis)
	}
	if n.ImageURL != nil {
		d.ImageURL = StringPtr(*n.ImageURL)
	}
	return d
}

// Clone returns a deep copy so callers never share slices with a store
func (d *Dream) Clone() *Dream {
	if d == nil {
		return nil
	}
	c := *d
	c.Archetypes = cloneStrings(d.Archetypes)
	c.Symbols = cloneStrings(d.Symbols)
	if d.Analysis != nil {
		c.Analysis = StringPtr(*d.Analysis)
	}
	if d.ImageURL != nil {
		c.ImageURL = StringPtr(*d.ImageURL)
	}
	return &c
}

// Labels returns archetypes followed by symbols
func (d *Dream) Labels() []string {
	labels := make([]string, 0, len(d.Archetypes)+len(d.Symbols))
	labels = append(labels, d.Archetypes...)
	return append(labels, d.Symbols...)
}

// StringPtr returns a pointer to a copy of s
func StringPtr(s string) *string {
	return &s
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return StringPtr(*s)
}

func cloneStringSlicePtr(in *[]string) []string {
	if in == nil {
		return nil
	}
	return cloneStrings(*in)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
