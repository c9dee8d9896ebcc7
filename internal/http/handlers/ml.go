package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arogyamitra/healthchat/internal/dataset"
	"github.com/arogyamitra/healthchat/internal/domain/job"
	"github.com/arogyamitra/healthchat/internal/http/middlewares"
	"github.com/arogyamitra/healthchat/internal/jobs"
	"github.com/arogyamitra/healthchat/internal/ml"
)

type JobEnqueuer interface {
	Create(ctx context.Context, req job.CreateRequest) (job.Job, error)
}

type Generator interface {
	Generate(ctx context.Context, input string) (string, error)
}

type MLHandler struct {
	queue     JobEnqueuer
	generator Generator
	data      *dataset.Dataset
	log       *slog.Logger
}

func NewMLHandler(queue JobEnqueuer, generator Generator, data *dataset.Dataset, log *slog.Logger) *MLHandler {
	return &MLHandler{
		queue:     queue,
		generator: generator,
		data:      data,
		log:       log,
	}
}

// Train enqueues a model-training job. Training runs minutes, not
// milliseconds, so the endpoint only accepts the work.
func (h *MLHandler) Train(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "Not authenticated")
		return
	}

	payload, err := jobs.EncodePayload(jobs.JobTrainModel, jobs.TrainModelPayload{
		RequestedBy: u.ID,
		RequestedAt: time.Now().UTC(),
		RequestID:   requestIDFrom(ctx),
	})

	if err != nil {
		h.log.Error("encode train payload", "err", err)
		RespondInternal(ctx)
		return
	}

	j, err := h.queue.Create(ctx.Request.Context(), job.CreateRequest{
		Type:    string(jobs.JobTrainModel),
		Payload: payload,
	})

	if err != nil {
		h.log.Error("enqueue training job", "err", err)
		RespondInternal(ctx)
		return
	}

	ctx.Set(middlewares.CtxJobID, j.ID)
	h.log.Info("training job enqueued", "job_id", j.ID, "requested_by", u.ID)

	ctx.JSON(http.StatusAccepted, gin.H{
		"jobId":  j.ID,
		"status": j.Status,
	})
}

type generateRequest struct {
	Input string `json:"input" binding:"required"`
}

// Generate runs the locally trained model against one input.
func (h *MLHandler) Generate(ctx *gin.Context) {
	var req generateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	input := strings.TrimSpace(req.Input)

	if input == "" {
		RespondBadRequest(ctx, "Input must not be empty", gin.H{"field": "input"})
		return
	}

	out, err := h.generator.Generate(ctx.Request.Context(), input)

	if err != nil {
		if errors.Is(err, ml.ErrTrainingInProgress) {
			RespondConflict(ctx, "training_in_progress", "Model is being trained, try again later")
			return
		}

		h.log.Error("generate from local model", "err", err)
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"response": out})
}

// Disease looks up one record from the reference dataset by name.
func (h *MLHandler) Disease(ctx *gin.Context) {
	if h.data == nil {
		RespondUnavailable(ctx, "Dataset is not loaded")
		return
	}

	name := strings.TrimSpace(ctx.Param("name"))

	rec, ok := h.data.DiseaseInfo(name)

	if !ok {
		RespondNotFound(ctx, "No dataset entry for that disease")
		return
	}

	ctx.JSON(http.StatusOK, rec)
}

// Export enqueues a CSV export of the caller's chat history.
func (h *MLHandler) Export(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "Not authenticated")
		return
	}

	payload, err := jobs.EncodePayload(jobs.JobExportChatsCSV, jobs.ExportChatsCSVPayload{
		UserID:      u.ID,
		RequestedBy: u.ID,
		RequestedAt: time.Now().UTC(),
		RequestID:   requestIDFrom(ctx),
	})

	if err != nil {
		h.log.Error("encode export payload", "err", err)
		RespondInternal(ctx)
		return
	}

	j, err := h.queue.Create(ctx.Request.Context(), job.CreateRequest{
		Type:    string(jobs.JobExportChatsCSV),
		Payload: payload,
	})

	if err != nil {
		h.log.Error("enqueue export job", "err", err)
		RespondInternal(ctx)
		return
	}

	ctx.Set(middlewares.CtxJobID, j.ID)

	ctx.JSON(http.StatusAccepted, gin.H{
		"jobId":  j.ID,
		"status": j.Status,
	})
}
