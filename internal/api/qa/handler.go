package qa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/askdoc/askdoc-backend/internal/config"
	"github.com/askdoc/askdoc-backend/internal/entity"
	"github.com/askdoc/askdoc-backend/internal/pkg/formatter"
	"github.com/askdoc/askdoc-backend/internal/pkg/logger"
	"github.com/askdoc/askdoc-backend/internal/pkg/response"
	"github.com/askdoc/askdoc-backend/internal/pkg/validator"
)

type Handler struct {
	usecase   QAUsecase
	validator *validator.Validator
	uploadCfg config.FileUploadConfig
}

func NewHandler(usecase QAUsecase, validator *validator.Validator, uploadCfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
		uploadCfg: uploadCfg,
	}
}

// CreateSession handles POST /sessions - upload documents and extract text
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	if err := r.ParseMultipartForm(h.uploadCfg.MaxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	headers := r.MultipartForm.File["files"]
	if err := h.validator.ValidateUpload(headers); err != nil {
		ctxzap.Error(ctx, "upload validation failed", zap.Error(err))
		h.handleUsecaseError(ctx, w, err)
		return
	}

	files := make([]entity.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		mediaType, _ := validator.MediaTypeFor(fh.Filename)

		f, err := fh.Open()
		if err != nil {
			ctxzap.Error(ctx, "failed to open uploaded file",
				zap.String("filename", fh.Filename), zap.Error(err))
			response.Error(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}

		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			ctxzap.Error(ctx, "failed to read uploaded file",
				zap.String("filename", fh.Filename), zap.Error(err))
			response.Error(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}

		files = append(files, entity.UploadedFile{
			Filename:  validator.SanitizeFilename(fh.Filename),
			MediaType: mediaType,
			Data:      data,
		})
	}

	session, err := h.usecase.CreateSession(ctx, files)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, toSessionDTO(session))
}

// GetSession handles GET /sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithAction(logger.WithSession(r.Context(), sessionID), "GetSession")

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// Ask handles POST /sessions/{id}/answers - answer questions against the
// session's documents
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithAction(logger.WithSession(r.Context(), sessionID), "Ask")

	var req entity.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	set, err := h.usecase.AnswerQuestions(ctx, sessionID, req.Questions)
	if errors.Is(err, entity.ErrNoQuestions) {
		// An empty textarea is a user nudge, not a failure.
		response.Warning(w, http.StatusOK, "Please enter at least one question.")
		return
	}
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toAnswerSetDTO(session, set))
}

// Export handles GET /sessions/{id}/answers/export - download the last
// answer set as markdown, pdf or docx
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithAction(logger.WithSession(r.Context(), sessionID), "Export")

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(entity.FormatMarkdown)
	}

	session, set, err := h.usecase.LastAnswers(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	factory := formatter.NewFactory()
	fmtr, err := factory.Create(entity.ResultFormat(formatParam))
	if err != nil {
		ctxzap.Warn(ctx, "invalid format parameter", zap.String("format", formatParam))
		response.Error(w, http.StatusBadRequest, "format must be one of: markdown, pdf, docx")
		return
	}

	data, err := fmtr.Format(buildAnswerReport(session, set))
	if err != nil {
		ctxzap.Error(ctx, "failed to format answers", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to format answers")
		return
	}

	w.Header().Set("Content-Type", fmtr.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"answers-%s%s\"", sessionID, fmtr.FileExtension()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// DeleteSession handles DELETE /sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithAction(logger.WithSession(r.Context(), sessionID), "DeleteSession")

	if err := h.usecase.DeleteSession(ctx, sessionID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, map[string]string{"message": "session deleted"})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "request failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		response.Error(w, http.StatusNotFound, "session not found")
	case errors.Is(err, entity.ErrNoAnswersYet):
		response.Error(w, http.StatusConflict, "no answers generated yet")
	case errors.Is(err, entity.ErrInvalidExtension),
		errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrTotalSizeTooLarge),
		errors.Is(err, entity.ErrTooManyFiles),
		errors.Is(err, entity.ErrInvalidFile):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrInvalidAnswerMode):
		response.Error(w, http.StatusBadRequest, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
