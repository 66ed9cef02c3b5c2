package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type dated struct {
	ID   int64  `validate:"required,gt=0"`
	Date string `validate:"required,isodate"`
}

func TestIsoDate(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(dated{ID: 1, Date: "2024-02-06"}))
	assert.Error(t, v.Struct(dated{ID: 1, Date: "2024-2-6"}))
	assert.Error(t, v.Struct(dated{ID: 1, Date: "2024-02-30"}))
	assert.Error(t, v.Struct(dated{ID: 1, Date: ""}))
}

func TestExplain(t *testing.T) {
	v := NewValidator()

	msg := v.Explain(v.Struct(dated{ID: 0, Date: "06/02/2024"}))
	assert.Contains(t, msg, "ID is a required field")
	assert.Contains(t, msg, "Date must be a calendar day formatted as YYYY-MM-DD")
}
