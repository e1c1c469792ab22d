package dream

import (
	"sort"
	"strings"
)

// Matches reports whether query occurs, ignoring case, in the title, content or
// analysis, or inside any archetype or symbol label
func (d *Dream) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(d.Title), q) ||
		strings.Contains(strings.ToLower(d.Content), q) {
		return true
	}
	if d.Analysis != nil && strings.Contains(strings.ToLower(*d.Analysis), q) {
		return true
	}
	for _, label := range d.Labels() {
		if strings.Contains(strings.ToLower(label), q) {
			return true
		}
	}
	return false
}

// SortNewestFirst orders dreams by creation time descending; equal times fall back
// to the higher id first so the order is total
func SortNewestFirst(dreams []*Dream) {
	sort.SliceStable(dreams, func(i, j int) bool {
		if dreams[i].CreatedAt.Equal(dreams[j].CreatedAt) {
			return dreams[i].ID > dreams[j].ID
		}
		return dreams[i].CreatedAt.After(dreams[j].CreatedAt)
	})
}

// SortOldestFirst orders messages by creation time ascending, ties by id
func SortOldestFirst(messages []*ChatMessage) {
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
}

// LatestMessages returns the newest limit messages, oldest first
func LatestMessages(messages []*ChatMessage, limit int) []*ChatMessage {
	sorted := make([]*ChatMessage, len(messages))
	copy(sorted, messages)
	SortOldestFirst(sorted)
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[len(sorted)-limit:]
	}
	return sorted
}
