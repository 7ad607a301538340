package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"trsync/internal/platform/middleware"
	registrymodels "trsync/internal/registry/models"
	"trsync/internal/teachers/models"
	"trsync/pkg/domain"
	"trsync/pkg/platform/httputil"
)

// Service is the synchronization facade the handler drives. Failure reasons
// come back in results; errors are reserved for invalid input and registry
// problems.
type Service interface {
	CreateTeacher(ctx context.Context, req *models.CreateTeacherRequest) (models.CreateTeacherResult, error)
	UpdateTeacher(ctx context.Context, req *models.UpdateTeacherRequest) (models.UpdateTeacherResult, error)
	SetIttResult(ctx context.Context, teacherID uuid.UUID, providerUkprn string, outcome registrymodels.IttResult, assessmentDate *time.Time) (models.SetIttResultResult, error)
	FindTeachers(ctx context.Context, req *models.FindTeachersRequest) ([]models.TeacherMatch, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/teachers", h.HandleCreateTeacher)
	r.Post("/teachers/find", h.HandleFindTeachers)
	r.Patch("/teachers/{teacherID}", h.HandleUpdateTeacher)
	r.Put("/teachers/{teacherID}/itt-outcome", h.HandleSetIttResult)
}

// HandleCreateTeacher registers a trainee. 201 carries the TRN, or no TRN and
// pending_review when the teacher was flagged as a potential duplicate.
func (h *Handler) HandleCreateTeacher(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateTeacherRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.CreateTeacher(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "create teacher failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	if !res.Succeeded {
		writeFailed(w, res.FailedReasons)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.NewCreateTeacherResponse(res))
}

func (h *Handler) HandleUpdateTeacher(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	teacherID, ok := parseTeacherID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeBindAndPrepare(w, r, h.logger, ctx, requestID, func(req *models.UpdateTeacherRequest) {
		req.TeacherID = teacherID
	})
	if !ok {
		return
	}

	res, err := h.service.UpdateTeacher(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "update teacher failed", "error", err, "request_id", requestID, "teacher_id", teacherID)
		httputil.WriteError(w, err)
		return
	}
	if !res.Succeeded {
		writeFailed(w, res.FailedReasons)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.UpdateTeacherResponse{TeacherID: res.TeacherID.String()})
}

// HandleSetIttResult records an ITT outcome. Outcome and assessment date
// rules are reported as failed_reasons rather than request errors.
func (h *Handler) HandleSetIttResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	teacherID, ok := parseTeacherID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeBindAndPrepare(w, r, h.logger, ctx, requestID, func(req *models.SetIttResultRequest) {
		req.TeacherID = teacherID
	})
	if !ok {
		return
	}

	res, err := h.service.SetIttResult(ctx, req.TeacherID, req.ProviderUkprn, req.Outcome, req.AssessmentDate.Ptr())
	if err != nil {
		h.logger.ErrorContext(ctx, "set itt result failed", "error", err, "request_id", requestID, "teacher_id", teacherID)
		httputil.WriteError(w, err)
		return
	}
	if !res.Succeeded {
		writeFailed(w, models.NewFailureReasons(res.FailedReason))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.NewSetIttResultResponse(res))
}

func (h *Handler) HandleFindTeachers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.FindTeachersRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	matches, err := h.service.FindTeachers(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "find teachers failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.NewFindTeachersResponse(matches))
}

func parseTeacherID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	teacherID, err := domain.ParseTeacherID(chi.URLParam(r, "teacherID"))
	if err != nil {
		httputil.WriteError(w, err)
		return uuid.Nil, false
	}
	return teacherID.UUID(), true
}

func writeFailed(w http.ResponseWriter, reasons models.FailureReasons) {
	httputil.WriteJSON(w, http.StatusBadRequest, models.FailedResponse{FailedReasons: reasons})
}
