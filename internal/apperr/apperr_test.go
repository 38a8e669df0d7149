package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicatesMatchType(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("gone")))
	assert.True(t, IsValidation(Validationf("bad field %s", "title")))
	assert.True(t, IsAuth(Auth("nope")))
	assert.True(t, IsConstraint(Constraint("duplicate")))

	assert.False(t, IsNotFound(Validation("bad")))
	assert.False(t, IsValidation(errors.New("plain")))
	assert.False(t, IsAuth(nil))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	inner := NotFound("media 7 not found")
	outer := fmt.Errorf("loading detail page: %w", inner)

	assert.True(t, IsNotFound(outer))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "title is required", Message(Validation("title is required")))
	assert.Equal(t, "something went wrong", Message(errors.New("sql: connection refused")))

	wrapped := Wrap(ErrorTypeInternal, "failed to save media", errors.New("disk full"))
	assert.Equal(t, "failed to save media", Message(wrapped))
	assert.Contains(t, wrapped.Error(), "disk full")
}

func TestDriverErrorDetection(t *testing.T) {
	assert.True(t, IsDuplicateError(errors.New("UNIQUE constraint failed: users.username")))
	assert.True(t, IsDuplicateError(errors.New(`pq: duplicate key value violates unique constraint "idx_tag_name_category"`)))
	assert.False(t, IsDuplicateError(errors.New("no such table")))

	assert.True(t, IsForeignKeyError(errors.New("FOREIGN KEY constraint failed")))
	assert.True(t, IsForeignKeyError(errors.New(`pq: insert or update on table "episodes" violates foreign key constraint`)))
	assert.False(t, IsForeignKeyError(nil))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrorTypeInternal, "context", cause)
	assert.True(t, errors.Is(err, cause))
}
