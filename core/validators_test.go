package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/placement/core"
)

type sample struct {
	Code   string `json:"code" validate:"notblank,alphanum_"`
	Name   string `json:"name" validate:"required"`
	Secret string `json:"-" validate:"omitempty,min=3"`
}

func TestValidator_Struct(t *testing.T) {
	v := core.NewValidator()

	require.NoError(t, v.Struct(sample{Code: "S_001", Name: "Ada"}))

	tests := []struct {
		name string
		data sample
		want []core.FieldError
	}{
		{
			name: "blank",
			data: sample{Code: "  "},
			want: []core.FieldError{
				{Field: "code", Error: "this field cannot be blank"},
				{Field: "name", Error: "this field is required"},
			},
		},
		{
			name: "not alphanumeric",
			data: sample{Code: "S-001", Name: "Ada"},
			want: []core.FieldError{{Field: "code", Error: "only alphanumeric characters and underscores are allowed"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.data)

			var vErr *core.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.want, vErr.Fields)
		})
	}
}
