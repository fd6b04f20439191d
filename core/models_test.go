package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IDFromContent("the mitochondria is the powerhouse of the cell")
		b := IDFromContent("the mitochondria is the powerhouse of the cell")
		assert.Equal(t, a, b)
	})

	t.Run("distinct content distinct ids", func(t *testing.T) {
		a := IDFromContent("chunk one")
		b := IDFromContent("chunk two")
		assert.NotEqual(t, a, b)
	})

	t.Run("empty content", func(t *testing.T) {
		assert.NotPanics(t, func() { IDFromContent("") })
	})
}

func TestIntent(t *testing.T) {
	t.Run("wire names", func(t *testing.T) {
		assert.Equal(t, "PDF-RAG", IntentDocumentQA.String())
		assert.Equal(t, "ArxivSearch", IntentAcademicSearch.String())
		assert.Equal(t, "WebSearch", IntentWebSearch.String())
	})

	t.Run("parse round trip", func(t *testing.T) {
		for _, intent := range []Intent{IntentDocumentQA, IntentAcademicSearch, IntentWebSearch} {
			parsed, ok := ParseIntent(intent.String())
			require.True(t, ok)
			assert.Equal(t, intent, parsed)
		}
	})

	t.Run("unknown tool name rejected", func(t *testing.T) {
		_, ok := ParseIntent("SQLQuery")
		assert.False(t, ok)

		_, ok = ParseIntent("")
		assert.False(t, ok)
	})

	t.Run("zero value invalid", func(t *testing.T) {
		var i Intent
		assert.False(t, i.Valid())
		assert.Equal(t, "Unknown", i.String())
	})
}

func TestUploadRecordValidate(t *testing.T) {
	valid := UploadRecord{
		FileID:     "b5c1e6a2",
		Filename:   "cells.pdf",
		Path:       "/tmp/uploads/b5c1e6a2.pdf",
		Size:       1024,
		ChunkCount: 3,
		UploadedAt: time.Now().UTC(),
	}

	t.Run("valid record", func(t *testing.T) {
		rec := valid
		assert.NoError(t, rec.Validate())
	})

	t.Run("missing file id", func(t *testing.T) {
		rec := valid
		rec.FileID = "  "
		assert.ErrorIs(t, rec.Validate(), ErrEmptyFileID)
	})

	t.Run("missing filename", func(t *testing.T) {
		rec := valid
		rec.Filename = ""
		assert.ErrorIs(t, rec.Validate(), ErrEmptyFilename)
	})

	t.Run("future timestamp", func(t *testing.T) {
		rec := valid
		rec.UploadedAt = time.Now().UTC().Add(48 * time.Hour)
		assert.ErrorIs(t, rec.Validate(), ErrFutureTimestamp)
	})
}
