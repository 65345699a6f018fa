package logger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/strata/internal/adapters/logger"
	"go.trai.ch/zerr"
)

var timeZero time.Time

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
		wantMetadata []map[string]any
	}{
		{
			name:         "standard error",
			err:          errors.New("simple error"),
			wantMessages: []string{"simple error"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name:         "wrapped chain",
			err:          zerr.Wrap(zerr.Wrap(errors.New("permission denied"), "failed to open file"), "model load failed"),
			wantMessages: []string{"model load failed", "failed to open file", "permission denied"},
			wantMetadata: []map[string]any{nil, nil, nil},
		},
		{
			name:         "metadata on one link",
			err:          zerr.With(zerr.With(zerr.New("model not loaded"), "model_id", "m-1"), "tool", "get_root"),
			wantMessages: []string{"model not loaded"},
			wantMetadata: []map[string]any{{"model_id": "m-1", "tool": "get_root"}},
		},
		{
			name: "metadata on each link",
			err: func() error {
				inner := zerr.With(zerr.New("element not found"), "path", "/a/b")
				return zerr.With(zerr.Wrap(inner, "lookup failed"), "model_id", "m-2")
			}(),
			wantMessages: []string{"lookup failed", "element not found"},
			wantMetadata: []map[string]any{{"model_id": "m-2"}, {"path": "/a/b"}},
		},
		{
			name:         "unnamed link lends metadata to its cause",
			err:          zerr.With(zerr.Wrap(zerr.New("model not loaded"), ""), "model_id", "m-3"),
			wantMessages: []string{"model not loaded"},
			wantMetadata: []map[string]any{{"model_id": "m-3"}},
		},
		{
			name:         "unnamed link before foreign error",
			err:          zerr.With(errors.New("permission denied"), "path", "/m.xml"),
			wantMessages: []string{"permission denied"},
			wantMetadata: []map[string]any{{"path": "/m.xml"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntries(tt.err)
			assert.Len(t, entries, len(tt.wantMessages))

			for i, wantMsg := range tt.wantMessages {
				assert.Equal(t, wantMsg, entries[i].Message, "message mismatch at index %d", i)
				for k, v := range tt.wantMetadata[i] {
					assert.Equal(t, v, entries[i].Metadata[k], "metadata %q at index %d", k, i)
				}
				if tt.wantMetadata[i] == nil {
					assert.Empty(t, entries[i].Metadata)
				}
			}
		})
	}
}

func TestCollectErrorEntries_Nil(t *testing.T) {
	assert.Empty(t, logger.CollectErrorEntries(nil))
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name:    "two entries with caused by",
			entries: []logger.ErrorEntry{{Message: "outer error"}, {Message: "inner error"}},
			want:    "Error: outer error\n\n  Caused by:\n    → inner error",
		},
		{
			name: "metadata sorted",
			entries: []logger.ErrorEntry{{
				Message:  "load failed",
				Metadata: map[string]any{"timeout": "60s", "path": "/m.xml"},
			}},
			want: "Error: load failed\n       path: /m.xml\n       timeout: 60s",
		},
		{
			name: "metadata on cause",
			entries: []logger.ErrorEntry{
				{Message: "main"},
				{Message: "cause", Metadata: map[string]any{"ref": "42"}},
			},
			want: "Error: main\n\n  Caused by:\n    → cause\n      ref: 42",
		},
		{
			name:    "multiline cause",
			entries: []logger.ErrorEntry{{Message: "main"}, {Message: "line1\nline2"}},
			want:    "Error: main\n\n  Caused by:\n    → line1\n      line2",
		},
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
