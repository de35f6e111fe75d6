// Package catalog serves the static quiz, job and tip content shipped with the binary.
package catalog

import (
	"embed"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var files embed.FS

// Question is one multiple choice question
type Question struct {
	Question    string   `yaml:"question" json:"question"`
	Options     []string `yaml:"options" json:"options"`
	Correct     int      `yaml:"correct" json:"-"`
	Explanation string   `yaml:"explanation" json:"-"`
}

// Quiz is a full quiz with its answer key
type Quiz struct {
	ID         string     `yaml:"id" json:"id"`
	Title      string     `yaml:"title" json:"title"`
	Difficulty string     `yaml:"difficulty" json:"difficulty"`
	Subject    string     `yaml:"subject" json:"subject"`
	Minutes    int        `yaml:"time" json:"time"`
	Color      string     `yaml:"color" json:"color"`
	Questions  []Question `yaml:"questions" json:"questions"`
}

// QuizSummary is the listing view of a quiz
type QuizSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Questions  int    `json:"questions"`
	Difficulty string `json:"difficulty"`
	Subject    string `json:"subject"`
	Minutes    int    `json:"time"`
	Color      string `json:"color"`
}

// Grade is the result of checking answers against the key
type Grade struct {
	Score        int
	Total        int
	Correct      []bool
	Explanations []string
}

// Grade checks answers in question order. Missing answers count as wrong.
func (q *Quiz) Grade(answers []int) Grade {
	g := Grade{
		Total:        len(q.Questions),
		Correct:      make([]bool, len(q.Questions)),
		Explanations: make([]string, len(q.Questions)),
	}
	for i, question := range q.Questions {
		g.Explanations[i] = question.Explanation
		if i < len(answers) && answers[i] == question.Correct {
			g.Correct[i] = true
			g.Score++
		}
	}
	return g
}

// Job is a job board listing
type Job struct {
	ID        string        `yaml:"id" json:"id"`
	Title     string        `yaml:"title" json:"title"`
	Company   string        `yaml:"company" json:"company"`
	Location  string        `yaml:"location" json:"location"`
	Type      string        `yaml:"type" json:"type"`
	Tags      []string      `yaml:"tags" json:"tags"`
	Salary    string        `yaml:"salary" json:"salary"`
	PostedAgo time.Duration `yaml:"posted_ago" json:"-"`
	PostedAt  time.Time     `yaml:"-" json:"postedAt"`
	ApplyURL  string        `yaml:"apply_url" json:"applyUrl"`
}

// JobFilter narrows job listings
type JobFilter struct {
	Type  string
	Query string
}

func (f JobFilter) matches(j *Job) bool {
	if f.Type != "" && !strings.EqualFold(f.Type, j.Type) {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	if strings.Contains(strings.ToLower(j.Title), q) || strings.Contains(strings.ToLower(j.Company), q) {
		return true
	}
	return slices.ContainsFunc(j.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), q)
	})
}

// Catalog holds the parsed content
type Catalog struct {
	quizzes []Quiz
	jobs    []Job
	tips    []string
}

// Load parses the embedded content
func Load() (*Catalog, error) {
	read := func(name string) ([]byte, error) {
		data, err := files.ReadFile("data/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, nil
	}

	quizzes, err := read("quizzes.yaml")
	if err != nil {
		return nil, err
	}
	jobs, err := read("jobs.yaml")
	if err != nil {
		return nil, err
	}
	tips, err := read("tips.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(quizzes, jobs, tips)
}

// Parse builds a catalog from raw YAML documents and checks the answer keys
func Parse(quizzesYAML, jobsYAML, tipsYAML []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(quizzesYAML, &c.quizzes); err != nil {
		return nil, fmt.Errorf("failed to parse quizzes: %w", err)
	}
	if err := yaml.Unmarshal(jobsYAML, &c.jobs); err != nil {
		return nil, fmt.Errorf("failed to parse jobs: %w", err)
	}
	if err := yaml.Unmarshal(tipsYAML, &c.tips); err != nil {
		return nil, fmt.Errorf("failed to parse tips: %w", err)
	}

	seen := make(map[string]bool, len(c.quizzes))
	for _, quiz := range c.quizzes {
		if quiz.ID == "" || seen[quiz.ID] {
			return nil, fmt.Errorf("quiz %q: missing or duplicate id", quiz.Title)
		}
		seen[quiz.ID] = true
		for i, q := range quiz.Questions {
			if q.Correct < 0 || q.Correct >= len(q.Options) {
				return nil, fmt.Errorf("quiz %s question %d: answer %d out of range", quiz.ID, i+1, q.Correct)
			}
		}
	}
	return c, nil
}

// Quizzes lists quiz summaries in catalog order
func (c *Catalog) Quizzes() []QuizSummary {
	out := make([]QuizSummary, 0, len(c.quizzes))
	for _, q := range c.quizzes {
		out = append(out, QuizSummary{
			ID:         q.ID,
			Title:      q.Title,
			Questions:  len(q.Questions),
			Difficulty: q.Difficulty,
			Subject:    q.Subject,
			Minutes:    q.Minutes,
			Color:      q.Color,
		})
	}
	return out
}

// Quiz finds a quiz by id
func (c *Catalog) Quiz(id string) (*Quiz, bool) {
	i := slices.IndexFunc(c.quizzes, func(q Quiz) bool { return q.ID == id })
	if i < 0 {
		return nil, false
	}
	quiz := c.quizzes[i]
	return &quiz, true
}

// Jobs lists matching jobs, newest first, with PostedAt relative to now
func (c *Catalog) Jobs(filter JobFilter, now time.Time) []Job {
	out := make([]Job, 0, len(c.jobs))
	for i := range c.jobs {
		if !filter.matches(&c.jobs[i]) {
			continue
		}
		job := c.jobs[i]
		job.PostedAt = now.Add(-job.PostedAgo)
		out = append(out, job)
	}
	slices.SortStableFunc(out, func(a, b Job) int {
		return b.PostedAt.Compare(a.PostedAt)
	})
	return out
}

// Job finds a job by id
func (c *Catalog) Job(id string, now time.Time) (*Job, bool) {
	i := slices.IndexFunc(c.jobs, func(j Job) bool { return j.ID == id })
	if i < 0 {
		return nil, false
	}
	job := c.jobs[i]
	job.PostedAt = now.Add(-job.PostedAgo)
	return &job, true
}

// Tips returns the static study tips
func (c *Catalog) Tips() []string {
	return slices.Clone(c.tips)
}
