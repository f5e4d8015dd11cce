package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	assert.Equal(t, Anonymous(), FromContext(context.Background()))

	ctx := WithIdentity(context.Background(), Authenticated("u1"))
	got := FromContext(ctx)
	assert.True(t, got.Authenticated)
	assert.Equal(t, "u1", got.UserID)
}

func TestAuthenticated_EmptyUserIsAnonymous(t *testing.T) {
	assert.False(t, Authenticated("").Authenticated)
}
