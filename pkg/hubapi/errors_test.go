package hubapi_test

import (
	"fmt"
	"testing"

	"github.com/spiderhub-io/hubapi/pkg/hubapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorError(t *testing.T) {
	t.Parallel()

	err := &hubapi.APIError{
		Code:   hubapi.ErrorCodeNotFound,
		Title:  "SH-ResourceNotFound",
		Detail: "Project not found",
	}

	assert.Equal(t, "SH-ResourceNotFound: Project not found (code: 4040)", err.Error())
}

func TestResponseErrorError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *hubapi.ResponseError
		expected string
	}{
		{
			name:     "no errors",
			err:      &hubapi.ResponseError{},
			expected: "unknown error",
		},
		{
			name: "single error",
			err: &hubapi.ResponseError{Errors: []hubapi.APIError{
				{Code: 4000, Title: "SH-BadRequest", Detail: "bad key"},
			}},
			expected: "SH-BadRequest: bad key (code: 4000)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestResponseErrorFirstError(t *testing.T) {
	t.Parallel()

	empty := &hubapi.ResponseError{}
	assert.Nil(t, empty.FirstError())

	resp := &hubapi.ResponseError{Errors: []hubapi.APIError{
		{Code: 4040, Title: "SH-ResourceNotFound"},
		{Code: 5000, Title: "SH-ServerError"},
	}}

	first := resp.FirstError()
	require.NotNil(t, first)
	assert.Equal(t, 4040, first.Code)
}

func TestParseResponseError(t *testing.T) {
	t.Parallel()

	data := []byte(`{"errors":[{"code":4010,"title":"SH-NotAuthenticated","detail":"Authentication required"}]}`)

	resp, err := hubapi.ParseResponseError(data)
	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, hubapi.ErrorCodeNotAuthenticated, resp.Errors[0].Code)
	assert.Equal(t, "Authentication required", resp.Errors[0].Detail)

	_, err = hubapi.ParseResponseError([]byte("not json"))
	require.Error(t, err)
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	notFound := &hubapi.ResponseError{Errors: []hubapi.APIError{
		{Code: hubapi.ErrorCodeNotFound, Title: "SH-ResourceNotFound"},
	}}
	unauthorized := &hubapi.ResponseError{Errors: []hubapi.APIError{
		{Code: hubapi.ErrorCodeNotAuthenticated, Title: "SH-NotAuthenticated"},
	}}
	forbidden := &hubapi.ResponseError{Errors: []hubapi.APIError{
		{Code: hubapi.ErrorCodeNotAuthorized, Title: "SH-NotAuthorized"},
	}}

	assert.True(t, hubapi.IsNotFound(notFound))
	assert.False(t, hubapi.IsNotFound(unauthorized))

	assert.True(t, hubapi.IsUnauthorized(unauthorized))
	assert.False(t, hubapi.IsUnauthorized(forbidden))

	assert.True(t, hubapi.IsForbidden(forbidden))
	assert.False(t, hubapi.IsForbidden(notFound))

	// Wrapped errors classify the same way.
	wrapped := fmt.Errorf("getting project: %w", notFound)
	assert.True(t, hubapi.IsNotFound(wrapped))

	assert.False(t, hubapi.IsNotFound(nil))
}

func TestIsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "invalid project id", err: hubapi.ErrInvalidProjectID, want: true},
		{name: "invalid job key", err: hubapi.ErrInvalidJobKey, want: true},
		{name: "job key mismatch", err: hubapi.ErrJobKeyMismatch, want: true},
		{name: "spider name required", err: hubapi.ErrSpiderNameRequired, want: true},
		{name: "invalid collection name", err: hubapi.ErrInvalidCollectionName, want: true},
		{name: "wrapped", err: fmt.Errorf("scheduling: %w", hubapi.ErrInvalidJobKey), want: true},
		{name: "config required", err: hubapi.ErrConfigRequired, want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, hubapi.IsInvalidInput(tt.err))
		})
	}
}
