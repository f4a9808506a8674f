package hubapi_test

import (
	"testing"

	"github.com/spiderhub-io/hubapi/pkg/hubapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProjectID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		want    int
		wantErr bool
	}{
		{name: "plain integer", value: "123", want: 123},
		{name: "zero", value: "0", want: 0},
		{name: "surrounding whitespace", value: " 42 ", want: 42},
		{name: "not a number", value: "abc", wantErr: true},
		{name: "empty", value: "", wantErr: true},
		{name: "float", value: "1.5", wantErr: true},
		{name: "negative", value: "-7", wantErr: true},
		{name: "trailing garbage", value: "123abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := hubapi.ParseProjectID(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, hubapi.ErrInvalidProjectID)
				assert.True(t, hubapi.IsInvalidInput(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJobKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		want    hubapi.JobKey
		wantErr bool
	}{
		{name: "canonical", value: "123/1/2", want: hubapi.JobKey{Project: 123, Spider: 1, Job: 2}},
		{name: "zeros", value: "0/0/0", want: hubapi.JobKey{}},
		{name: "two parts", value: "123/1", wantErr: true},
		{name: "four parts", value: "123/1/2/3", wantErr: true},
		{name: "non-numeric part", value: "123/spider/2", wantErr: true},
		{name: "negative part", value: "123/-1/2", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := hubapi.ParseJobKey(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, hubapi.ErrInvalidJobKey)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJobKeyString(t *testing.T) {
	t.Parallel()

	key := hubapi.JobKey{Project: 123, Spider: 4, Job: 56}
	assert.Equal(t, "123/4/56", key.String())

	parsed, err := hubapi.ParseJobKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, parsed)
}
