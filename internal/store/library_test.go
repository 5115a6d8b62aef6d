package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLibrary() *Library {
	l := NewLibrary(NewMemoryKV())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	l.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Hour)
	}
	return l
}

func TestLibrarySaveSetsCurrent(t *testing.T) {
	l := newTestLibrary()
	ctx := t.Context()

	_, err := l.Current(ctx)
	assert.ErrorIs(t, err, ErrRoadmapNotFound)

	saved, err := l.Save(ctx, SavedRoadmap{CareerPath: "Backend Engineer", Text: "# Backend", Source: SourceCareer})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	cur, err := l.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, cur.ID)
	assert.Equal(t, "# Backend", cur.Text)
}

func TestLibraryKeepsMostRecent(t *testing.T) {
	l := newTestLibrary()
	ctx := t.Context()

	for i := range MaxSavedRoadmaps + 2 {
		_, err := l.Save(ctx, SavedRoadmap{CareerPath: fmt.Sprintf("career-%d", i), Text: "- x"})
		require.NoError(t, err)
	}

	list, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, MaxSavedRoadmaps)
	assert.Equal(t, "career-6", list[0].CareerPath)
	assert.Equal(t, "career-2", list[MaxSavedRoadmaps-1].CareerPath)
}

func TestLibraryReplacesSameCareer(t *testing.T) {
	l := newTestLibrary()
	ctx := t.Context()

	_, err := l.Save(ctx, SavedRoadmap{CareerPath: "Data", Text: "v1"})
	require.NoError(t, err)
	_, err = l.Save(ctx, SavedRoadmap{CareerPath: "Web", Text: "w"})
	require.NoError(t, err)
	_, err = l.Save(ctx, SavedRoadmap{CareerPath: "Data", Text: "v2"})
	require.NoError(t, err)

	list, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "v2", list[0].Text)
	assert.Equal(t, "Web", list[1].CareerPath)
}

func TestLibraryReplacesSameCareerIgnoringCase(t *testing.T) {
	l := newTestLibrary()
	ctx := t.Context()

	_, err := l.Save(ctx, SavedRoadmap{CareerPath: "Data Scientist", Text: "v1"})
	require.NoError(t, err)
	_, err = l.Save(ctx, SavedRoadmap{CareerPath: "data scientist", Text: "v2"})
	require.NoError(t, err)

	list, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "v2", list[0].Text)

	got, err := l.Get(ctx, "DATA SCIENTIST")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Text)
}

func TestLibrarySetCurrent(t *testing.T) {
	l := newTestLibrary()
	ctx := t.Context()

	_, err := l.Save(ctx, SavedRoadmap{CareerPath: "Data", Text: "d"})
	require.NoError(t, err)
	_, err = l.Save(ctx, SavedRoadmap{CareerPath: "Web", Text: "w"})
	require.NoError(t, err)

	r, err := l.SetCurrent(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, "Data", r.CareerPath)

	cur, err := l.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "d", cur.Text)

	_, err = l.SetCurrent(ctx, "Nope")
	assert.ErrorIs(t, err, ErrRoadmapNotFound)
}

func TestLibraryRequiresCareerPath(t *testing.T) {
	l := newTestLibrary()
	_, err := l.Save(t.Context(), SavedRoadmap{CareerPath: "  "})
	assert.Error(t, err)
}
