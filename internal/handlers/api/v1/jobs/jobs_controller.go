package jobs

import (
	"net/http"

	"studyos/internal/response"
	"studyos/internal/services"
	"studyos/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// JobController serves the job board
type JobController struct {
	service         services.JobService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewJobController creates a new job controller
func NewJobController(service services.JobService, logger *zap.Logger, responseBuilder *response.Builder) *JobController {
	return &JobController{service: service, logger: logger, responseBuilder: responseBuilder}
}

// RegisterRoutes registers job board routes on an authenticated router
func (c *JobController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/jobs", c.ListJobs).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}", c.GetJob).Methods(http.MethodGet)
}

// ListJobs handles GET /api/jobs?type=&q=
func (c *JobController) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	jobs := c.service.List(r.Context(), &services.ListJobsRequest{
		Type:  query.Get("type"),
		Query: query.Get("q"),
	})
	c.responseBuilder.WriteList(w, r, jobs, len(jobs))
}

// GetJob handles GET /api/jobs/{id}
func (c *JobController) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := utils.PathString(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	job, err := c.service.Get(r.Context(), jobID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, job)
}
