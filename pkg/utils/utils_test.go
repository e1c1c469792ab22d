package utils

import (
	"testing"

	pkgerrors "dreamspeak/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		max      int
		fallback string
		want     string
	}{
		{"blank uses fallback", "   ", 10, "Untitled", "Untitled"},
		{"short is kept", "  Flying  ", 10, "", "Flying"},
		{"exact length is kept", "abcde", 5, "", "abcde"},
		{"long is cut", "I was flying over the sea", 10, "", "I was flyi..."},
		{"trailing space before ellipsis is trimmed", "Flying over", 7, "", "Flying..."},
		{"counts runes", "sueño profundo", 5, "", "sueño..."},
		{"non-positive max keeps everything", "anything", 0, "", "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.max, tt.fallback))
		})
	}
}

type sampleRequest struct {
	Title  string `json:"title" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=user assistant"`
	UserID *int64 `json:"userId" validate:"omitempty,gt=0"`
	Image  string `json:"imageUrl" validate:"omitempty,url"`
}

func TestValidateStruct(t *testing.T) {
	zero := int64(0)
	one := int64(1)

	tests := []struct {
		name       string
		req        sampleRequest
		wantFields map[string]interface{}
	}{
		{
			name: "valid",
			req:  sampleRequest{Title: "t", Role: "user", UserID: &one, Image: "https://example.com/a.png"},
		},
		{
			name: "missing and bad values",
			req:  sampleRequest{Role: "system", UserID: &zero, Image: "not a url"},
			wantFields: map[string]interface{}{
				"title":    "title is required",
				"role":     "role must be one of: user assistant",
				"userId":   "userId must be greater than 0",
				"imageUrl": "imageUrl must be a valid URL",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			appErr := pkgerrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.ErrorTypeValidation, appErr.Type)
			assert.Equal(t, tt.wantFields, appErr.Details["fields"])
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, ValidateVar("imageUrl", "https://example.com/a.png", "url"))

	err := ValidateVar("imageUrl", "not a url", "url")
	require.Error(t, err)
	appErr := pkgerrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, map[string]interface{}{"imageUrl": "imageUrl must be a valid URL"}, appErr.Details["fields"])

	err = ValidateVar("archetypes", []string{"ok", "this label is far too long"}, "dive,max=10")
	require.Error(t, err)
	assert.Equal(t,
		map[string]interface{}{"archetypes": "archetypes must be at most 10"},
		pkgerrors.GetAppError(err).Details["fields"],
	)
}
