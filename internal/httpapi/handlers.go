package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/jobservice"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/metrics"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/models"
)

// jobServiceAPI is the subset of jobservice.Service the HTTP surface
// depends on, narrowed to an interface so handlers are testable
// without a full Service.
type jobServiceAPI interface {
	CreateJob(params models.IndexBuildParameters) (string, error)
	GetJob(id string) (models.Job, error)
	ListJobs() map[string]models.Job
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Log.WithError(err).Error("failed to encode response body")
	}
}

func writeValidationError(w http.ResponseWriter, ve *ValidationError) {
	metrics.RecordAdmissionRejection("validation")
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"detail": "Validation Error",
		"errors": ve.Errors,
	})
}

// buildHandler implements POST /_build.
type buildHandler struct {
	svc jobServiceAPI
}

func (h *buildHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeValidationError(w, &ValidationError{Errors: []FieldError{
			{Field: "", Message: "failed to read request body", Type: "value_error"},
		}})
		return
	}

	params, ve := decodeBuildRequest(body)
	if ve != nil {
		writeValidationError(w, ve)
		return
	}

	jobID, err := h.svc.CreateJob(params)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"job_id": jobID})
	case errors.Is(err, jobservice.ErrHashCollision):
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"detail": "hash collision"})
	case errors.Is(err, jobservice.ErrCapacity):
		writeJSON(w, http.StatusInsufficientStorage, map[string]string{"detail": "insufficient capacity"})
	default:
		logging.Log.WithError(err).Error("unexpected error creating job")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// getStatusResponse is the wire shape of GET /_status/{job_id}.
type getStatusResponse struct {
	TaskStatus   models.JobStatus `json:"task_status"`
	FileName     *string          `json:"file_name,omitempty"`
	ErrorMessage *string          `json:"error_message,omitempty"`
}

// statusHandler implements GET /_status/{job_id}.
type statusHandler struct {
	svc jobServiceAPI
}

func (h *statusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := jobIDFromContext(r)
	job, err := h.svc.GetJob(id)
	if err != nil {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, getStatusResponse{
		TaskStatus:   job.Status,
		FileName:     job.FileName,
		ErrorMessage: job.ErrorMessage,
	})
}

// jobRecord is the wire shape of one entry in GET /_jobs.
type jobRecord struct {
	ID           string           `json:"id"`
	Status       models.JobStatus `json:"status"`
	FileName     *string          `json:"file_name,omitempty"`
	ErrorMessage *string          `json:"error_message,omitempty"`
}

// jobsHandler implements GET /_jobs.
type jobsHandler struct {
	svc jobServiceAPI
}

func (h *jobsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobs := h.svc.ListJobs()
	out := make(map[string]jobRecord, len(jobs))
	for id, job := range jobs {
		out[id] = jobRecord{
			ID:           job.ID,
			Status:       job.Status,
			FileName:     job.FileName,
			ErrorMessage: job.ErrorMessage,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// heartBeatHandler implements GET /_heart_beat.
type heartBeatHandler struct {
	serviceName string
}

func (h *heartBeatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.serviceName)
}
