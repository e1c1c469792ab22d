package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"dreamspeak/application/ports"
	"dreamspeak/domain/dream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock returns a clock that advances one minute per call
func tickingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := current
		current = current.Add(time.Minute)
		return t
	}
}

func newTestStore() *Store {
	return NewStore(WithClock(tickingClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))))
}

func TestStore_CreateAndGetDream_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	created, err := store.CreateDream(ctx, dream.NewDream{
		UserID:  1,
		Title:   "Flight",
		Content: "I was flying over a red house",
	})
	require.NoError(t, err)

	got, err := store.GetDream(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, "Flight", got.Title)
	assert.Equal(t, "I was flying over a red house", got.Content)
	assert.Nil(t, got.Analysis)
	assert.Nil(t, got.Archetypes)
	assert.Nil(t, got.Symbols)
	assert.Nil(t, got.ImageURL)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, created, got)
}

func TestStore_CreateDream_AssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	first, err := store.CreateDream(ctx, dream.NewDream{UserID: 1, Title: "a", Content: "a"})
	require.NoError(t, err)
	second, err := store.CreateDream(ctx, dream.NewDream{UserID: 1, Title: "b", Content: "b"})
	require.NoError(t, err)

	assert.Equal(t, first.ID+1, second.ID)
}

func TestStore_GetDream_NotFound(t *testing.T) {
	store := newTestStore()

	got, err := store.GetDream(context.Background(), 42)

	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.Nil(t, got)
}

func TestStore_GetDreamsByUserID_NewestFirstAndScoped(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	for i := 0; i < 3; i++ {
		_, err := store.CreateDream(ctx, dream.NewDream{UserID: 1, Title: fmt.Sprintf("d%d", i), Content: "x"})
		require.NoError(t, err)
	}
	_, err := store.CreateDream(ctx, dream.NewDream{UserID: 2, Title: "other", Content: "x"})
	require.NoError(t, err)

	dreams, err := store.GetDreamsByUserID(ctx, 1)
	require.NoError(t, err)

	require.Len(t, dreams, 3)
	assert.Equal(t, "d2", dreams[0].Title)
	assert.Equal(t, "d1", dreams[1].Title)
	assert.Equal(t, "d0", dreams[2].Title)

	again, err := store.GetDreamsByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, dreams, again)
}

func TestStore_UpdateDream_ChangesOnlyPatchedFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	analysis := "an interpretation"
	created, err := store.CreateDream(ctx, dream.NewDream{
		UserID:     1,
		Title:      "Keys",
		Content:    "A golden key",
		Analysis:   &analysis,
		Archetypes: []string{"Sage"},
		Symbols:    []string{"key"},
	})
	require.NoError(t, err)

	url := "x"
	updated, err := store.UpdateDream(ctx, created.ID, dream.Patch{ImageURL: dream.SetTo(url)})
	require.NoError(t, err)

	expected := created.Clone()
	expected.ImageURL = &url
	assert.Equal(t, expected, updated)

	stored, err := store.GetDream(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, expected, stored)
}

func TestStore_UpdateDream_NotFound(t *testing.T) {
	title := "nope"

	got, err := newTestStore().UpdateDream(context.Background(), 99, dream.Patch{Title: &title})

	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.Nil(t, got)
}

func TestStore_DeleteDream(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	created, err := store.CreateDream(ctx, dream.NewDream{UserID: 1, Title: "t", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteDream(ctx, created.ID))

	_, err = store.GetDream(ctx, created.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, store.DeleteDream(ctx, created.ID), ports.ErrNotFound)
}

func TestStore_ReturnedRecordsDoNotAliasState(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	created, err := store.CreateDream(ctx, dream.NewDream{UserID: 1, Title: "t", Content: "c", Archetypes: []string{"Hero"}})
	require.NoError(t, err)

	created.Archetypes[0] = "Villain"
	created.Title = "changed"

	stored, err := store.GetDream(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hero"}, stored.Archetypes)
	assert.Equal(t, "t", stored.Title)
}

func TestStore_SearchDreams(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	analysis := "Confronting the SHADOW self"
	key, err := store.CreateDream(ctx, dream.NewDream{UserID: 1, Title: "Night", Content: "I saw a golden key"})
	require.NoError(t, err)
	shadow, err := store.CreateDream(ctx, dream.NewDream{UserID: 1, Title: "Cellar", Content: "stairs", Analysis: &analysis})
	require.NoError(t, err)
	labelled, err := store.CreateDream(ctx, dream.NewDream{UserID: 1, Title: "Sea", Content: "waves", Symbols: []string{"Ocean Wave"}})
	require.NoError(t, err)
	_, err = store.CreateDream(ctx, dream.NewDream{UserID: 2, Title: "Golden", Content: "golden"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{name: "content substring", query: "golden", want: []int64{key.ID}},
		{name: "case insensitive analysis", query: "shadow", want: []int64{shadow.ID}},
		{name: "label substring", query: "ocean", want: []int64{labelled.ID}},
		{name: "no match", query: "unrelated-term", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.SearchDreams(ctx, 1, tt.query)
			require.NoError(t, err)

			ids := make([]int64, 0, len(got))
			for _, d := range got {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestStore_ChatMessages_GlobalAndThread(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	dreamID := int64(7)
	_, err := store.CreateChatMessage(ctx, dream.NewChatMessage{Role: dream.RoleUser, Content: "global 1"})
	require.NoError(t, err)
	_, err = store.CreateChatMessage(ctx, dream.NewChatMessage{DreamID: &dreamID, Role: dream.RoleAssistant, Content: "thread 1"})
	require.NoError(t, err)
	_, err = store.CreateChatMessage(ctx, dream.NewChatMessage{Role: dream.RoleAssistant, Content: "global 2"})
	require.NoError(t, err)

	global, err := store.GetChatMessages(ctx, nil)
	require.NoError(t, err)
	require.Len(t, global, 2)
	assert.Equal(t, "global 1", global[0].Content)
	assert.Equal(t, "global 2", global[1].Content)

	thread, err := store.GetChatMessages(ctx, &dreamID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "thread 1", thread[0].Content)
}

func TestStore_GetRecentChatMessages(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	for i := 1; i <= 5; i++ {
		_, err := store.CreateChatMessage(ctx, dream.NewChatMessage{Role: dream.RoleUser, Content: fmt.Sprintf("m%d", i)})
		require.NoError(t, err)
	}

	recent, err := store.GetRecentChatMessages(ctx, 3)
	require.NoError(t, err)

	require.Len(t, recent, 3)
	assert.Equal(t, "m3", recent[0].Content)
	assert.Equal(t, "m4", recent[1].Content)
	assert.Equal(t, "m5", recent[2].Content)
}

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	seeded, err := store.GetUser(ctx, dream.DefaultUserID)
	require.NoError(t, err)
	assert.Equal(t, "dreamer", seeded.Username)

	created, err := store.CreateUser(ctx, "luna", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)

	byName, err := store.GetUserByUsername(ctx, "LUNA")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = store.CreateUser(ctx, "luna", "again")
	assert.Error(t, err)

	_, err = store.GetUser(ctx, 99)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestStore_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := store.CreateDream(ctx, dream.NewDream{UserID: 1, Title: "t", Content: "c"})
			if err != nil {
				return
			}
			url := "u"
			_, _ = store.UpdateDream(ctx, d.ID, dream.Patch{ImageURL: dream.SetTo(url)})
		}()
	}
	wg.Wait()

	dreams, err := store.GetDreamsByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, dreams, 50)

	seen := make(map[int64]bool)
	for _, d := range dreams {
		assert.False(t, seen[d.ID], "duplicate id %d", d.ID)
		seen[d.ID] = true
	}
}
