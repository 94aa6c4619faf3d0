package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	assert.Len(t, c.Lessons(), 36)
	assert.Len(t, c.Achievements(), 6)

	lsn, ok := c.Lesson("FND_L1")
	require.True(t, ok)
	assert.Equal(t, "FND_L1", lsn.ID)
	assert.NotEmpty(t, lsn.Title)
	assert.NotEmpty(t, lsn.Quiz.Question)
	assert.Greater(t, lsn.Points, 0)
	assert.Less(t, lsn.Quiz.CorrectAnswer, len(lsn.Quiz.Options))

	_, ok = c.Lesson("NOPE_L1")
	assert.False(t, ok)
}

func TestCatalog_RandomQuiz(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	tests := []struct {
		name    string
		count   int
		wantLen int
	}{
		{name: "negative", count: -1, wantLen: 0},
		{name: "zero", count: 0, wantLen: 0},
		{name: "some", count: 10, wantLen: 10},
		{name: "all", count: len(c.Lessons()), wantLen: len(c.Lessons())},
		{name: "more than the catalog", count: 1000, wantLen: len(c.Lessons())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lessons := c.RandomQuiz(tt.count)
			assert.Len(t, lessons, tt.wantLen)

			seen := make(map[string]bool, len(lessons))
			for _, lsn := range lessons {
				assert.Falsef(t, seen[lsn.ID], "lesson %s drawn twice", lsn.ID)
				seen[lsn.ID] = true
			}
		})
	}

	// the catalog itself must not be reordered by a draw
	first := c.Lessons()[0].ID
	for i := 0; i < 10; i++ {
		c.RandomQuiz(len(c.Lessons()))
	}
	assert.Equal(t, first, c.Lessons()[0].ID)
}

func TestCatalog_NewlyUnlocked(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	allLessons := make([]string, 0, len(c.Lessons()))
	for _, lsn := range c.Lessons() {
		allLessons = append(allLessons, lsn.ID)
	}

	tests := []struct {
		name      string
		completed []string
		unlocked  []string
		want      []string
	}{
		{name: "nothing completed", want: nil},
		{name: "first lesson", completed: []string{"FND_L1"}, want: []string{"UVT1"}},
		{name: "already unlocked", completed: []string{"FND_L1"}, unlocked: []string{"UVT1"}, want: nil},
		{name: "unrelated lesson", completed: []string{"FND_L2"}, want: nil},
		{name: "group definition", completed: []string{"GRP_L1"}, want: []string{"UVT2"}},
		{name: "morphisms need both lessons", completed: []string{"GRP_L3"}, want: nil},
		{name: "morphisms complete", completed: []string{"GRP_L3", "GRP_L8"}, want: []string{"UVT3"}},
		{name: "rings", completed: []string{"RNG_L1", "RNG_L3"}, want: []string{"UVT4", "UVT5"}},
		{
			name: "several at once, catalog order", completed: []string{"RNG_L1", "GRP_L1", "FND_L1"},
			want: []string{"UVT1", "UVT2", "UVT4"},
		},
		{name: "whole curriculum", completed: allLessons, want: []string{"UVT1", "UVT2", "UVT3", "UVT4", "UVT5", "UVT6"}},
		{
			name: "whole curriculum, most already unlocked", completed: allLessons,
			unlocked: []string{"UVT1", "UVT2", "UVT3", "UVT4", "UVT5"}, want: []string{"UVT6"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.NewlyUnlocked(tt.completed, tt.unlocked))
		})
	}
}
