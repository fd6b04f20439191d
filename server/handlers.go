package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/poiesic/askdoc/core"
	"github.com/poiesic/askdoc/extract"
	"github.com/poiesic/askdoc/trace"
)

// askRequest is the JSON body of the ask endpoint.
type askRequest struct {
	Query  string `json:"query"`
	FileID string `json:"file_id"`
}

// handleUpload accepts a multipart file, extracts its text, and builds
// the document's vector index.
func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}
	if !s.extractor.Supports(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported file type: %s", filepath.Ext(file.Filename))})
		return
	}

	fileID := uuid.NewString()
	dst := filepath.Join(s.uploadDir, fileID+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		s.logger.Error("saving upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save the uploaded file"})
		return
	}

	text, err := s.extractor.Extract(dst)
	if err != nil {
		if errors.Is(err, extract.ErrNoText) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not extract text from the PDF."})
			return
		}
		s.logger.Error("text extraction failed", "file_id", fileID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process the uploaded file"})
		return
	}

	if err := s.store.Build(c.Request.Context(), fileID, text); err != nil {
		s.logger.Error("indexing failed", "file_id", fileID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to index the uploaded file"})
		return
	}

	if s.uploads != nil {
		record := &core.UploadRecord{
			FileID:     fileID,
			Filename:   file.Filename,
			Path:       dst,
			Size:       file.Size,
			ChunkCount: s.store.ChunkCount(fileID),
			UploadedAt: time.Now().UTC(),
		}
		if err := s.uploads.AddUpload(c.Request.Context(), record); err != nil {
			s.logger.Warn("persisting upload record failed", "file_id", fileID, "error", err)
		}
	}

	s.logger.Info("document indexed", "file_id", fileID, "filename", file.Filename,
		"chunks", s.store.ChunkCount(fileID))
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("File '%s' processed successfully.", file.Filename),
		"file_id": fileID,
	})
}

// handleAsk routes the query through the pipeline and returns the
// synthesized answer.
func (s *Server) handleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	answer, err := s.pipeline.Ask(c.Request.Context(), req.Query, req.FileID)
	if err != nil {
		if errors.Is(err, core.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
			return
		}
		s.logger.Error("query processing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process query"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":      answer.Text,
		"agents_used": []string{answer.Intent.String()},
		"rationale":   answer.Rationale,
	})
}

// handleLogs serves the raw trace log, or 404 before anything has been
// traced.
func (s *Server) handleLogs(c *gin.Context) {
	if s.trace == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No logs yet"})
		return
	}

	contents, err := s.trace.Contents()
	if err != nil {
		if errors.Is(err, trace.ErrNoLog) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No logs yet"})
			return
		}
		s.logger.Error("reading trace log failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read logs"})
		return
	}

	c.String(http.StatusOK, contents)
}
