package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	mediaUC "github.com/MoSamy004/Portfolio/internal/application/usecase/media"
	"github.com/MoSamy004/Portfolio/pkg/apperror"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

const (
	formFieldFile = "file"
	// multipartOverhead leaves room for boundaries and part headers.
	multipartOverhead = 1 << 20
)

type MediaHandler struct {
	uploadMediaUC *mediaUC.UploadMediaUseCase
	deleteMediaUC *mediaUC.DeleteMediaUseCase
	maxBytes      int64
	logger        logger.Logger
}

func NewMediaHandler(
	uploadUC *mediaUC.UploadMediaUseCase,
	deleteUC *mediaUC.DeleteMediaUseCase,
	maxBytes int64,
	log logger.Logger,
) *MediaHandler {
	return &MediaHandler{
		uploadMediaUC: uploadUC,
		deleteMediaUC: deleteUC,
		maxBytes:      maxBytes,
		logger:        log,
	}
}

func (h *MediaHandler) UploadMedia(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}

	fileHeader, err := c.FormFile(formFieldFile)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.NewInvalidInput("File too large", err))
			return
		}
		c.Error(apperror.NewInvalidInput("No file uploaded", err))
		return
	}
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		c.Error(apperror.NewInvalidInput("File too large", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Error(apperror.NewInternal("failed to read file", err))
		return
	}

	input := mediaUC.UploadMediaInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}

	output, err := h.uploadMediaUC.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, UploadResponse{URL: output.URL})
}

func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	input := mediaUC.DeleteMediaInput{
		Key: c.Query("key"),
		URL: c.Query("url"),
	}

	if _, err := h.deleteMediaUC.Execute(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
