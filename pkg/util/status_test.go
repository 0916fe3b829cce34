package util_test

import (
	"testing"

	"github.com/blgl/s3zip/pkg/util"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestStatusWrap(t *testing.T) {
	err := status.Error(codes.NotFound, "File not found")
	wrapped := util.StatusWrap(err, "Failed to open archive")
	require.Equal(t, codes.NotFound, status.Code(wrapped))
	require.Equal(t, "Failed to open archive: File not found", status.Convert(wrapped).Message())
}

func TestStatusWrapWithCode(t *testing.T) {
	err := status.Error(codes.NotFound, "File not found")
	wrapped := util.StatusWrapWithCode(err, codes.Internal, "Failed to open archive")
	require.Equal(t, codes.Internal, status.Code(wrapped))
	require.Equal(t, "Failed to open archive: File not found", status.Convert(wrapped).Message())
}
