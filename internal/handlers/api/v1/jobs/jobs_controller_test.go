package jobs

import (
	"net/http"
	"testing"

	"studyos/internal/catalog"
	"studyos/internal/handlers/api/v1/apitest"
	"studyos/internal/response"
	"studyos/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newServer(t *testing.T) *apitest.Server {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)

	srv := apitest.NewServer(1)
	NewJobController(services.NewJobService(cat, zap.NewNop()), zap.NewNop(), response.NewBuilder(nil, nil)).
		RegisterRoutes(srv.Protected)
	return srv
}

func TestListJobsFilters(t *testing.T) {
	srv := newServer(t)

	rec := srv.Do(t, http.MethodGet, "/api/jobs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, apitest.Decode(t, rec, nil).Meta.Count)

	rec = srv.Do(t, http.MethodGet, "/api/jobs?type=internship", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var jobs []catalog.Job
	apitest.Decode(t, rec, &jobs)
	require.Len(t, jobs, 2)
	for _, job := range jobs {
		assert.Equal(t, "Internship", job.Type)
	}

	rec = srv.Do(t, http.MethodGet, "/api/jobs?q=backend", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	apitest.Decode(t, rec, &jobs)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Backend Engineer Intern", jobs[0].Title)
}

func TestGetJob(t *testing.T) {
	srv := newServer(t)

	rec := srv.Do(t, http.MethodGet, "/api/jobs/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var job catalog.Job
	apitest.Decode(t, rec, &job)
	assert.Equal(t, "AI Research Assistant", job.Title)
	assert.False(t, job.PostedAt.IsZero())

	rec = srv.Do(t, http.MethodGet, "/api/jobs/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
