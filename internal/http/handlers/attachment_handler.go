package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/Artixsss/MVDProject/internal/http/handlers/common"
	"github.com/Artixsss/MVDProject/internal/models"
	"github.com/Artixsss/MVDProject/internal/repository"
	"github.com/Artixsss/MVDProject/internal/service"
	"github.com/Artixsss/MVDProject/internal/storage"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// AttachmentHandler загрузка и выдача фотоматериалов обращений.
type AttachmentHandler struct {
	attachments *repository.AttachmentRepository
	requests    *service.RequestService
	storage     *storage.PhotoStorage
}

// NewAttachmentHandler создаёт хэндлер.
func NewAttachmentHandler(attachments *repository.AttachmentRepository, requests *service.RequestService, photoStorage *storage.PhotoStorage) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments, requests: requests, storage: photoStorage}
}

// Upload обрабатывает POST /api/requests/:id/attachments.
// Тип файла проверяется по магическим байтам, не по расширению.
func (h *AttachmentHandler) Upload(c *gin.Context) {
	requestID, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.requests.GetByID(c.Request.Context(), requestID); err != nil {
		_ = c.Error(err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "поле file обязательно")
		return
	}
	if file.Size == 0 {
		common.RespondError(c, http.StatusBadRequest, "файл не может быть пустым")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		common.RespondError(c, http.StatusBadRequest, "неподдерживаемый формат файла, разрешены jpg, jpeg, png, webp")
		return
	}

	src, err := file.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		common.RespondError(c, http.StatusBadRequest, "не удалось прочитать файл")
		return
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown {
		common.RespondError(c, http.StatusBadRequest, "не удалось определить тип файла, разрешены только изображения")
		return
	}

	mimeType := kind.MIME.Value
	if !allowedMimeTypes[mimeType] {
		common.RespondError(c, http.StatusBadRequest, fmt.Sprintf("неподдерживаемый тип файла (%s)", mimeType))
		return
	}

	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			_ = c.Error(err)
			return
		}
	}

	relativePath, size, err := h.storage.Save(c.Request.Context(), requestID, file.Filename, src)
	if err != nil {
		_ = c.Error(err)
		return
	}

	attachment := &models.Attachment{
		RequestID: requestID,
		FilePath:  filepath.ToSlash(relativePath),
		FileSize:  size,
		MimeType:  mimeType,
		CreatedAt: time.Now().UTC(),
	}
	id, err := h.attachments.Insert(c.Request.Context(), attachment)
	if err != nil {
		_ = c.Error(err)
		return
	}
	attachment.ID = id

	common.RespondJSON(c, http.StatusCreated, attachment)
}

// List обрабатывает GET /api/requests/:id/attachments.
func (h *AttachmentHandler) List(c *gin.Context) {
	requestID, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	attachments, err := h.attachments.ListByRequest(c.Request.Context(), requestID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, attachments)
}

// Download обрабатывает GET /api/attachments/:id.
func (h *AttachmentHandler) Download(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	attachment, err := h.attachments.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	f, err := h.storage.Open(c.Request.Context(), attachment.FilePath)
	if err != nil {
		common.RespondError(c, http.StatusNotFound, "файл не найден")
		return
	}
	defer f.Close()

	c.Header("Content-Type", attachment.MimeType)
	c.Header("Content-Length", fmt.Sprintf("%d", attachment.FileSize))
	_, _ = io.Copy(c.Writer, f)
}

// Delete обрабатывает DELETE /api/attachments/:id.
func (h *AttachmentHandler) Delete(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	attachment, err := h.attachments.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.storage.Delete(c.Request.Context(), attachment.FilePath); err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.attachments.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
