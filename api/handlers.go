package api

import (
	stderrors "errors"
	"net/http"

	"salesforecast/api/middleware"
	"salesforecast/domain/dataset"
	"salesforecast/domain/forecast"
	"salesforecast/internal/errors"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for boundaries and part headers on top of
// the file size limit enforced by storage
const multipartOverhead = 64 << 10

// ForecastRequest is the body of POST /predict. Date is accepted but unused.
type ForecastRequest struct {
	Product string `json:"product" binding:"required"`
	Region  string `json:"region" binding:"required"`
	Date    string `json:"date"`
}

// UploadResponse is the body of a successful POST /upload
type UploadResponse struct {
	Message string `json:"message"`
	dataset.StoredFile
}

// handleUpload stores the multipart "file" field in the upload directory
func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.store.MaxUploadBytes()+multipartOverhead)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			s.rejectUpload(c, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
		case stderrors.Is(err, http.ErrMissingFile):
			s.rejectUpload(c, http.StatusBadRequest, "No file part in the request")
		default:
			s.rejectUpload(c, http.StatusBadRequest, "Invalid upload: "+err.Error())
		}
		return
	}
	defer file.Close()

	stored, err := s.store.Save(c.Request.Context(), header.Filename, file)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("[%s] upload of %q failed: %v", middleware.GetRequestID(c), header.Filename, err)
			s.recorder.ObserveUpload("failed", 0)
			c.JSON(status, gin.H{"error": "Failed to store file"})
			return
		}
		s.rejectUpload(c, status, errorMessage(err))
		return
	}

	s.recorder.ObserveUpload("stored", stored.Size)
	c.JSON(http.StatusCreated, UploadResponse{
		Message:    "File uploaded successfully",
		StoredFile: *stored,
	})
}

func (s *Server) rejectUpload(c *gin.Context, status int, message string) {
	s.logger.Warn("[%s] upload rejected: %s", middleware.GetRequestID(c), message)
	s.recorder.ObserveUpload("rejected", 0)
	c.JSON(status, gin.H{"error": message})
}

// handlePredict answers an average quantity query against the active dataset
func (s *Server) handlePredict(c *gin.Context) {
	var req ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result := s.forecaster.Forecast(c.Request.Context(), forecast.Query{
		Product: req.Product,
		Region:  req.Region,
	})

	switch result.Status {
	case forecast.StatusFound:
		c.JSON(http.StatusOK, gin.H{"forecast": result.Message()})
	case forecast.StatusNoMatch:
		c.JSON(http.StatusNotFound, gin.H{"forecast": result.Message()})
	case forecast.StatusSchemaError:
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Message(), "missing": result.Missing})
	case forecast.StatusQuantityError:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": result.Message()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Message()})
	}
}

// handleDescribe summarizes the active dataset
func (s *Server) handleDescribe(c *gin.Context) {
	summary, err := s.forecaster.Describe(c.Request.Context())
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("[%s] describe failed: %v", middleware.GetRequestID(c), err)
		}
		c.JSON(status, gin.H{"error": errorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func statusForError(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage prefers the AppError message over the full wrapped chain
func errorMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		if appErr.Cause != nil && appErr.Code == errors.CodeLoadError {
			return appErr.Message + ": " + appErr.Cause.Error()
		}
		return appErr.Message
	}
	return err.Error()
}
