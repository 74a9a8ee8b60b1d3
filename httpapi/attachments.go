package httpapi

import (
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resolveit/attachment"
)

func (h *Handler) uploadAttachment(c *gin.Context) {
	// Complaint must exist before anything hits the disk.
	if _, err := h.Complaints.GetByID(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "missing file")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	att, err := h.Attachments.Upload(c.Request.Context(), attachment.UploadParams{
		ComplaintID:  c.Param("id"),
		UploaderID:   currentUserID(c),
		OriginalName: fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Body:         f,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, att)
}

func (h *Handler) listAttachments(c *gin.Context) {
	atts, err := h.Attachments.ListByComplaint(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if atts == nil {
		atts = []attachment.Attachment{}
	}
	c.JSON(http.StatusOK, atts)
}

func (h *Handler) downloadAttachment(c *gin.Context) {
	att, rc, err := h.Attachments.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Length", strconv.FormatInt(att.Size, 10))
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": att.OriginalName}))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		log.Printf("httpapi: stream attachment %s: %v", att.ID, err)
	}
}
