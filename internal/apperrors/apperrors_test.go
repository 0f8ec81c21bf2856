package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_UnwrapsWrappedError(t *testing.T) {
	base := NotFound("store", "getByID", "document not found")
	wrapped := fmt.Errorf("calling store: %w", base)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestKindOf_DefaultsToInternalForPlainErrors(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestError_MessageIncludesCauseWhenPresent(t *testing.T) {
	cause := errors.New("disk full")
	err := StoreFailed("store", "createDocument", "inserting row", cause)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "StoreFailed")
	assert.ErrorIs(t, err, cause)
}

func TestDuplicate_CarriesDuplicateKind(t *testing.T) {
	err := Duplicate("store", "createDocument", "path already indexed")
	assert.Equal(t, KindDuplicate, err.Kind)
	assert.Nil(t, err.Unwrap())
}
