package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-graphql-blog/internal/domain/apperror"
	"github.com/oksasatya/go-graphql-blog/internal/domain/identity"
)

func TestMe(t *testing.T) {
	f := newFixture(t)
	ctx, u := f.register(t, "me@example.com")

	me, err := f.users.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)
	assert.Equal(t, "I am new!", me.Status)
}

func TestUpdateStatus_OnlyTouchesOwnUser(t *testing.T) {
	f := newFixture(t)
	ctx, u := f.register(t, "status@example.com")
	_, other := f.register(t, "other@example.com")

	updated, err := f.users.UpdateStatus(ctx, "Writing Go")
	require.NoError(t, err)
	assert.Equal(t, u.ID, updated.ID)
	assert.Equal(t, "Writing Go", updated.Status)

	o, err := f.store.Users().GetByID(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, "I am new!", o.Status)
}

func TestUserOperations_MissingUser(t *testing.T) {
	f := newFixture(t)
	ctx := identity.WithIdentity(context.Background(), identity.Authenticated("deleted-user"))

	_, err := f.users.Me(ctx)
	ae := apperror.From(err)
	assert.Equal(t, apperror.KindNotFound, ae.Kind)
	assert.Equal(t, MsgUserNotFound, ae.Message)

	_, err = f.users.UpdateStatus(ctx, "x")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestPostsOf(t *testing.T) {
	f := newFixture(t)
	ctx, _ := f.register(t, "po@example.com")
	first := f.createPost(t, ctx, "First one")
	second := f.createPost(t, ctx, "Second one")

	me, err := f.users.Me(ctx)
	require.NoError(t, err)
	posts, err := f.users.PostsOf(ctx, me)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, first.ID, posts[0].ID)
	assert.Equal(t, second.ID, posts[1].ID)
}
