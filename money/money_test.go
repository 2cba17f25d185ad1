package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	testCases := []struct {
		minor int64
		want  string
	}{
		{0, "£0.00"},
		{5, "£0.05"},
		{10, "£0.10"},
		{100, "£1.00"},
		{124, "£1.24"},
		{150, "£1.50"},
		{123456, "£1234.56"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, Format(tc.minor), "Format(%d)", tc.minor)
	}
}
