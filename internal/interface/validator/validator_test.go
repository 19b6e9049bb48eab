package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwebyy/rally-track-sub001/internal/interface/dto/request"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
)

func TestCustomValidator_Validate_InitiateUploadRequest(t *testing.T) {
	cv, err := NewCustomValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     request.InitiateUploadRequest
		wantErr bool
	}{
		{
			name:    "valid request",
			req:     request.InitiateUploadRequest{FileName: "match_20260830.mp4", FileSize: 1000},
			wantErr: false,
		},
		{
			name:    "zero byte file",
			req:     request.InitiateUploadRequest{FileName: "empty.mp4", FileSize: 0},
			wantErr: false,
		},
		{
			name:    "missing file name",
			req:     request.InitiateUploadRequest{FileSize: 1000},
			wantErr: true,
		},
		{
			name:    "negative file size",
			req:     request.InitiateUploadRequest{FileName: "match.mp4", FileSize: -1},
			wantErr: true,
		},
		{
			name:    "path separator in file name",
			req:     request.InitiateUploadRequest{FileName: "../etc/passwd", FileSize: 1000},
			wantErr: true,
		},
		{
			name:    "backslash in file name",
			req:     request.InitiateUploadRequest{FileName: `dir\match.mp4`, FileSize: 1000},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cv.Validate(&tt.req)
			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := err.(*apperror.AppError)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidationError, appErr.Code)
				assert.NotEmpty(t, appErr.Details)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCustomValidator_Validate_ReportProgressRequest(t *testing.T) {
	cv, err := NewCustomValidator()
	require.NoError(t, err)

	zero := int64(0)
	negative := int64(-1)

	assert.NoError(t, cv.Validate(&request.ReportProgressRequest{UploadedBytes: &zero}))
	assert.Error(t, cv.Validate(&request.ReportProgressRequest{UploadedBytes: &negative}))
	assert.Error(t, cv.Validate(&request.ReportProgressRequest{}))
}
