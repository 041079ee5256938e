package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/medicabinet/cabinet/pkg/apperror"
)

func TestSecurityNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		valid  bool
	}{
		{"valid", "123456789012345", true},
		{"valid all zeros", "000000000000000", true},
		{"too short", "12345678901234", false},
		{"too long", "1234567890123456", false},
		{"empty", "", false},
		{"non digit", "12345678901234a", false},
		{"embedded space", "1234567 9012345", false},
		{"negative sign", "-12345678901234", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SecurityNumber(tt.number)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.IsCode(err, apperror.CodeInvalidSecurityNumber))
		})
	}
}

func TestAge(t *testing.T) {
	birth := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, Age(birth, time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 29, Age(birth, time.Date(2020, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30, Age(birth, time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 29, Age(birth, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, Age(birth, time.Date(1991, 6, 14, 0, 0, 0, 0, time.UTC)))
}
