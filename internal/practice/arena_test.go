package practice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/questmap/internal/store"
)

func newTestArena(t *testing.T) (*Arena, *time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := NewArena(store.NewMemoryKV(), testBank(t), nil)
	a.now = func() time.Time { return now }
	return a, &now
}

func TestArena_FreshTopic(t *testing.T) {
	a, _ := newTestArena(t)
	ctx := t.Context()

	as, err := a.Assessment(ctx, "Python")
	require.NoError(t, err)
	assert.Nil(t, as)

	credits, err := a.Credits(ctx)
	require.NoError(t, err)
	assert.Zero(t, credits)

	q, err := a.Next(ctx, "Python")
	require.NoError(t, err)
	assert.Equal(t, 1, q.ID)
}

func TestArena_SubmitCorrect(t *testing.T) {
	a, now := newTestArena(t)
	ctx := t.Context()

	res, err := a.Submit(ctx, 1, "3", true, 42*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Credits)
	assert.Equal(t, 2, res.TotalCredits)
	assert.Equal(t, Beginner, res.Assessment.SkillLevel)
	assert.Equal(t, *now, res.Assessment.LastAssessed)
	assert.NotEmpty(t, res.Attempt.ID)
	assert.Equal(t, 42, res.Attempt.TimeTaken)

	stored, err := a.Assessment(ctx, "Python")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, res.Assessment, *stored)

	// Question 1 was answered correctly just now, so the next one is 2.
	q, err := a.Next(ctx, "Python")
	require.NoError(t, err)
	assert.Equal(t, 2, q.ID)

	// A day later it is eligible again.
	*now = now.Add(RecentWindow + time.Minute)
	q, err = a.Next(ctx, "Python")
	require.NoError(t, err)
	assert.Equal(t, 1, q.ID)
}

func TestArena_SubmitWrongAwardsNothing(t *testing.T) {
	a, _ := newTestArena(t)
	ctx := t.Context()

	res, err := a.Submit(ctx, 25, "no idea", false, time.Minute)
	require.NoError(t, err)
	assert.Zero(t, res.Credits)
	assert.Zero(t, res.TotalCredits)
	assert.InDelta(t, 0, res.Assessment.AccuracyRate, 1e-9)

	// A wrong answer does not hold the question back.
	attempts, err := a.Attempts(ctx)
	require.NoError(t, err)
	assert.Len(t, attempts, 1)
	assert.False(t, attempts[0].Correct)
}

func TestArena_LevelsUp(t *testing.T) {
	a, _ := newTestArena(t)
	ctx := t.Context()

	// Correct answers on medium and hard SQL questions.
	for _, id := range []int{23, 24, 25} {
		_, err := a.Submit(ctx, id, "", true, 0)
		require.NoError(t, err)
	}

	as, err := a.Assessment(ctx, "SQL")
	require.NoError(t, err)
	assert.Equal(t, Advanced, as.SkillLevel)
	assert.Equal(t, 3, as.QuestionsAttempted)

	q, err := a.Next(ctx, "SQL")
	require.NoError(t, err)
	assert.Equal(t, 26, q.ID, "25 was answered recently, 26 is the next hard one")

	credits, err := a.Credits(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5+6+7, credits)
}

func TestArena_NoQuestionLeft(t *testing.T) {
	a, _ := newTestArena(t)
	ctx := t.Context()

	for _, id := range []int{21, 22} {
		_, err := a.Submit(ctx, id, "", true, 0)
		require.NoError(t, err)
	}
	// Two correct easy answers keep SQL at beginner with every easy question used.
	_, err := a.Next(ctx, "SQL")
	assert.ErrorIs(t, err, ErrNoQuestion)
}

func TestArena_TopicIgnoresCase(t *testing.T) {
	a, _ := newTestArena(t)
	ctx := t.Context()

	// One correct medium-hard answer makes Python intermediate.
	res, err := a.Submit(ctx, 5, "", true, 0)
	require.NoError(t, err)
	require.Equal(t, Intermediate, res.Assessment.SkillLevel)

	want, err := a.Next(ctx, "Python")
	require.NoError(t, err)
	assert.True(t, Range{4, 7}.Contains(want.DifficultyScore))

	for _, name := range []string{"python", "PYTHON", " python "} {
		q, err := a.Next(ctx, name)
		require.NoError(t, err, name)
		assert.Equal(t, want.ID, q.ID, name)

		as, err := a.Assessment(ctx, name)
		require.NoError(t, err, name)
		require.NotNil(t, as, name)
		assert.Equal(t, Intermediate, as.SkillLevel)
	}
}

func TestArena_UnknownTopic(t *testing.T) {
	a, _ := newTestArena(t)
	_, err := a.Next(t.Context(), "Haskell")
	assert.ErrorIs(t, err, ErrUnknownTopic)
}

func TestArena_UnknownQuestion(t *testing.T) {
	a, _ := newTestArena(t)
	_, err := a.Submit(t.Context(), 12345, "", true, 0)
	assert.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestArena_AttemptLogBounded(t *testing.T) {
	a, _ := newTestArena(t)
	ctx := t.Context()

	seed := make([]Attempt, MaxStoredAttempts)
	for i := range seed {
		seed[i] = Attempt{ID: "old", QuestionID: 1}
	}
	require.NoError(t, store.SetJSON(ctx, a.kv, AttemptsKey, seed))

	_, err := a.Submit(ctx, 2, "", false, 0)
	require.NoError(t, err)

	attempts, err := a.Attempts(ctx)
	require.NoError(t, err)
	assert.Len(t, attempts, MaxStoredAttempts)
	assert.Equal(t, 2, attempts[len(attempts)-1].QuestionID)
}
