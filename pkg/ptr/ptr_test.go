package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	assert.True(t, Equal[string](nil, nil))
	assert.False(t, Equal(Ptr("a"), nil))
	assert.False(t, Equal(nil, Ptr("a")))
	assert.True(t, Equal(Ptr("a"), Ptr("a")))
	assert.False(t, Equal(Ptr("a"), Ptr("b")))
}

func TestDeref(t *testing.T) {
	assert.Equal(t, "", Deref[string](nil))
	assert.Equal(t, 5, Deref(Ptr(5)))
}
