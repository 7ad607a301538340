package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "trsync/pkg/domain-errors"
)

func TestParseTeacherID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseTeacherID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseTeacherID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseTeacherID(uuid.Nil.String())
		require.Error(t, err)
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		raw := uuid.New()
		id, err := ParseTeacherID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, TeacherID(raw), id)
		assert.Equal(t, raw, id.UUID())
		assert.Equal(t, raw.String(), id.String())
	})
}
