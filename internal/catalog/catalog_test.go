package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	summaries := c.Quizzes()
	require.Len(t, summaries, 4)
	assert.Equal(t, "Machine Learning Basics", summaries[0].Title)
	assert.Equal(t, 3, summaries[0].Questions)
	assert.Len(t, c.Tips(), 5)
}

func TestGrade(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	quiz, ok := c.Quiz("1")
	require.True(t, ok)

	g := quiz.Grade([]int{0, 2, 3})
	assert.Equal(t, 2, g.Score)
	assert.Equal(t, 3, g.Total)
	assert.Equal(t, []bool{true, true, false}, g.Correct)
	assert.Len(t, g.Explanations, 3)

	short := quiz.Grade([]int{0})
	assert.Equal(t, 1, short.Score)

	_, ok = c.Quiz("missing")
	assert.False(t, ok)
}

func TestQuizJSONHidesAnswers(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	quiz, _ := c.Quiz("2")

	raw, err := json.Marshal(quiz)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correct")
	assert.NotContains(t, string(raw), "explanation")
}

func TestJobsFilterAndOrder(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	all := c.Jobs(JobFilter{}, now)
	require.Len(t, all, 4)
	assert.Equal(t, "TechFlow", all[0].Company)
	assert.Equal(t, now, all[0].PostedAt)
	assert.Equal(t, now.Add(-24*time.Hour), all[1].PostedAt)

	interns := c.Jobs(JobFilter{Type: "internship"}, now)
	assert.Len(t, interns, 2)

	python := c.Jobs(JobFilter{Query: "pytorch"}, now)
	require.Len(t, python, 1)
	assert.Equal(t, "OpenMind", python[0].Company)

	job, ok := c.Job("4", now)
	require.True(t, ok)
	assert.Equal(t, "Contract", job.Type)
}

func TestParseRejectsBadAnswerKey(t *testing.T) {
	quizzes := []byte(`
- id: "x"
  title: Broken
  questions:
    - question: q
      options: [a, b]
      correct: 5
`)
	_, err := Parse(quizzes, []byte("[]"), []byte("[]"))
	assert.Error(t, err)
}
