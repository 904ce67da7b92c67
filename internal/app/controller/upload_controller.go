package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/middleware"
	"github.com/partsden/partsden-backend/internal/storage"
)

// Content types accepted for product documents. Videos are linked by URL
// rather than uploaded, so they are not listed here.
var allowedDocumentTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/svg+xml",
}

type UploadController struct {
	storage *storage.DocumentStorage
}

func NewUploadController(storage *storage.DocumentStorage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type PresignUploadRequest struct {
	Filename     string `json:"filename" binding:"required"`
	ContentType  string `json:"content_type" binding:"required"`
	DocumentType string `json:"document_type" binding:"required"`
}

// PresignDocumentUpload issues a pre-signed S3 PUT URL for a product
// document. The caller uploads the file, then registers the returned
// file_url via the product document endpoint (admin).
// POST /api/v1/admin/uploads/documents
func (ctrl *UploadController) PresignDocumentUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	switch model.DocumentType(req.DocumentType) {
	case model.DocumentInstall, model.DocumentManual, model.DocumentWarranty, model.DocumentDiagram:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document type"})
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedDocumentTypes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Only PDF and image files are allowed",
		})
		return
	}

	upload, err := ctrl.storage.PresignDocumentUpload(c.Request.Context(), req.Filename, req.ContentType, req.DocumentType)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":      req.Filename,
			"content_type":  req.ContentType,
			"document_type": req.DocumentType,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate upload URL",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload_url": upload.UploadURL,
		"file_url":   upload.FileURL,
		"key":        upload.Key,
	})
}
