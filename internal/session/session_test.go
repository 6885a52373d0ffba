package session

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() bank.Snapshot {
	return bank.New(types.QuestionBank{Categories: []types.Category{
		{Order: 1, Category: "JavaScript", Questions: []types.Question{
			{ID: "q1", Question: "클로저?", Answer: "함수와 렉시컬 환경의 조합", Keywords: "렉시컬 환경, 스코프"},
			{ID: "q2", Question: "이벤트 루프?", Answer: "콜 스택이 비면 태스크 큐에서 가져온다", Keywords: "콜 스택, 태스크 큐"},
			{ID: "q3", Question: "호이스팅?", Answer: "선언이 끌어올려진다"},
		}},
	}}, nil)
}

func TestToggle(t *testing.T) {
	s := New()

	on, err := s.Toggle(FlagCompleted, "q1")
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.IsCompleted("q1"))

	on, err = s.Toggle(FlagCompleted, "q1")
	require.NoError(t, err)
	assert.False(t, on)

	on, err = s.Toggle(FlagExpanded, "q1")
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.IsExpanded("q1"))

	_, err = s.Toggle(Flag("starred"), "q1")
	var uerr *UnknownFlagError
	require.ErrorAs(t, err, &uerr)
}

func TestToggleAnswer_VisibleByDefault(t *testing.T) {
	s := New()
	assert.True(t, s.AnswerVisible("q1"))

	visible, err := s.Toggle(FlagAnswer, "q1")
	require.NoError(t, err)
	assert.False(t, visible)
	assert.False(t, s.AnswerVisible("q1"))

	visible, err = s.Toggle(FlagAnswer, "q1")
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestReset_KeepsRecordings(t *testing.T) {
	s := New()
	_, _ = s.Toggle(FlagCompleted, "q1")
	_, _ = s.Toggle(FlagAnswer, "q1")
	c, err := s.StartCapture("q1", "")
	require.NoError(t, err)
	_, err = c.Stop(3)
	require.NoError(t, err)

	s.Reset()

	assert.Equal(t, State{AnswerVisible: true, HasRecording: true}, s.State("q1"))
}

func TestPickRandom(t *testing.T) {
	s := New(WithRand(rand.New(rand.NewPCG(1, 2))))
	view := testSnapshot().Questions()

	_, _ = s.Toggle(FlagCompleted, "q1")
	_, _ = s.Toggle(FlagCompleted, "q3")
	for range 20 {
		q, ok := s.PickRandom(view)
		require.True(t, ok)
		assert.Equal(t, "q2", q.ID)
	}
	assert.True(t, s.IsExpanded("q2"))
}

func TestPickRandom_AllCompletedFallsBackToAll(t *testing.T) {
	s := New(WithRand(rand.New(rand.NewPCG(7, 7))))
	view := testSnapshot().Questions()
	for _, q := range view {
		_, _ = s.Toggle(FlagCompleted, q.ID)
	}

	seen := map[string]bool{}
	for range 200 {
		q, ok := s.PickRandom(view)
		require.True(t, ok)
		seen[q.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestPickRandom_EmptyView(t *testing.T) {
	_, ok := New().PickRandom(nil)
	assert.False(t, ok)
}

func TestForget(t *testing.T) {
	s := New()
	_, _ = s.Toggle(FlagCompleted, "q1")
	c, err := s.StartCapture("q1", "")
	require.NoError(t, err)

	s.Forget("q1")

	assert.False(t, s.IsCompleted("q1"))
	_, ok := s.Capture("q1")
	assert.False(t, ok)
	_, err = c.Stop(1)
	assert.ErrorIs(t, err, ErrNoCapture)
	_, ok = s.Recording("q1")
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { clock = clock.Add(time.Second); return clock }))
	snap := testSnapshot()

	record := func(id, text string) {
		c, err := s.StartCapture(id, "")
		require.NoError(t, err)
		if text != "" {
			require.NoError(t, c.AddTranscript(text, true))
		}
		_, err = c.Stop(5)
		require.NoError(t, err)
	}
	record("q1", "클로저는 함수와 렉시컬 환경의 조합")
	record("q2", "잘 모르겠습니다")
	record("q3", "")
	_, _ = s.Toggle(FlagCompleted, "q1")

	sum, err := s.Summarize(snap)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Recordings)
	assert.Equal(t, 2, sum.Scored)
	assert.Equal(t, 1, sum.Completed)
	assert.Greater(t, sum.Max, sum.Min)
	assert.InDelta(t, (sum.Max+sum.Min)/2, sum.Median, 0.001)

	res, err := s.ScoreRecording(snap, "q1")
	require.NoError(t, err)
	assert.Equal(t, float64(res.Overall), sum.Max)

	_, err = s.ScoreRecording(snap, "q3")
	assert.ErrorIs(t, err, ErrNoTranscript)
	_, err = s.ScoreRecording(snap, "missing")
	assert.ErrorIs(t, err, ErrNoRecording)
}

func TestSummarize_NoRecordings(t *testing.T) {
	sum, err := New().Summarize(testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
}
