package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-graphql-blog/internal/domain/apperror"
	"github.com/oksasatya/go-graphql-blog/internal/domain/identity"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/events"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/memory"
	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
)

func postCount(t *testing.T, f *fixture) int64 {
	t.Helper()
	n, err := f.store.Posts().Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestProtectedOperations_RequireAuthentication(t *testing.T) {
	f := newFixture(t)
	ctx, u := f.register(t, "owner@example.com")
	p := f.createPost(t, ctx, "First post")
	before := postCount(t, f)
	valid := PostInput{Title: "Valid title", Content: "Valid content", ImageURL: "x"}

	for _, c := range []context.Context{context.Background(), anonymous()} {
		ops := map[string]func() error{
			"createPost":       func() error { _, err := f.posts.Create(c, valid); return err },
			"getPosts":         func() error { _, err := f.posts.List(c, 1); return err },
			"getPostById":      func() error { _, err := f.posts.Get(c, p.ID); return err },
			"updatePost":       func() error { _, err := f.posts.Update(c, p.ID, valid); return err },
			"deletePost":       func() error { _, err := f.posts.Delete(c, p.ID); return err },
			"searchPosts":      func() error { _, err := f.posts.Search(c, "post", 5); return err },
			"updateUserStatus": func() error { _, err := f.users.UpdateStatus(c, "hacked"); return err },
			"user":             func() error { _, err := f.users.Me(c); return err },
		}
		for name, op := range ops {
			err := op()
			ae := apperror.From(err)
			require.NotNil(t, ae, name)
			assert.Equal(t, apperror.KindUnauthenticated, ae.Kind, name)
			assert.Equal(t, MsgNotAuthenticated, ae.Message, name)
		}
	}

	assert.Equal(t, before, postCount(t, f))
	stored, err := f.store.Posts().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "First post", stored.Title)
	me, err := f.store.Users().GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "I am new!", me.Status)
	assert.Empty(t, f.images.deleted)
}

func TestCreatePost_ValidationListsEveryField(t *testing.T) {
	f := newFixture(t)
	ctx, _ := f.register(t, "v@example.com")

	tests := []struct {
		name string
		in   PostInput
		want []string
	}{
		{"both short", PostInput{Title: "abc", Content: "abcd"}, []string{"Title input not valid.", "Content input not valid"}},
		{"padded title", PostInput{Title: "  ab   ", Content: "long enough"}, []string{"Title input not valid."}},
		{"empty content", PostInput{Title: "long enough", Content: "     "}, []string{"Content input not valid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.posts.Create(ctx, tt.in)
			ae := apperror.From(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperror.KindValidation, ae.Kind)
			assert.Equal(t, MsgInvalidPostInput, ae.Message)
			got := make([]string, 0, len(ae.Data))
			for _, v := range ae.Data {
				got = append(got, v.Message)
			}
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Zero(t, postCount(t, f))
}

func TestCreatePost_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx, u := f.register(t, "rt@example.com")

	created, err := f.posts.Create(ctx, PostInput{Title: "Round trip", Content: "Content survives", ImageURL: "images/1-a.png"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, created.Creator.ID)
	assert.Contains(t, created.Creator.PostIDs, created.ID)

	got, err := f.posts.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Round trip", got.Title)
	assert.Equal(t, "Content survives", got.Content)
	assert.Equal(t, "images/1-a.png", got.ImageURL)
	assert.Equal(t, u.ID, got.Creator.ID)
	assert.Equal(t, u.Email, got.Creator.Email)

	stored, err := f.store.Users().GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, stored.PostIDs)

	assert.Equal(t, []string{created.ID}, f.index.indexed)
	assert.Equal(t, []string{events.UserRegistered, events.PostCreated}, f.pub.types())
}

func TestCreatePost_UnknownCreator(t *testing.T) {
	f := newFixture(t)
	ctx := identity.WithIdentity(context.Background(), identity.Authenticated("ghost"))

	_, err := f.posts.Create(ctx, PostInput{Title: "Hello there", Content: "General Kenobi"})
	ae := apperror.From(err)
	assert.Equal(t, apperror.KindUnauthenticated, ae.Kind)
	assert.Equal(t, MsgInvalidUser, ae.Message)
	assert.Zero(t, postCount(t, f))
}

type failingAppend struct {
	*memory.UserRepository
}

func (failingAppend) AppendPost(context.Context, string, string) error {
	return errors.New("connection reset")
}

func TestCreatePost_CompensatesWhenAppendFails(t *testing.T) {
	f := newFixture(t)
	ctx, _ := f.register(t, "c@example.com")
	svc := NewPostService(f.store.Posts(), failingAppend{f.store.Users()}, f.images, f.index, f.pub, helpers.NewDiscardLogger())

	_, err := svc.Create(ctx, PostInput{Title: "Never seen", Content: "Never seen either"})
	ae := apperror.From(err)
	assert.Equal(t, apperror.KindUnexpected, ae.Kind)
	assert.Equal(t, "An error occurred.", ae.Message)
	assert.ErrorContains(t, ae.Unwrap(), "connection reset")

	assert.Zero(t, postCount(t, f))
	assert.Empty(t, f.index.indexed)
	assert.NotContains(t, f.pub.types(), events.PostCreated)
}

func TestGetPosts_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx, _ := f.register(t, "p@example.com")
	for i := 0; i < 12; i++ {
		f.createPost(t, ctx, fmt.Sprintf("Post number %02d", i))
	}

	page1, err := f.posts.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, page1.Posts, 5)
	assert.EqualValues(t, 12, page1.TotalPosts)
	assert.Equal(t, "Post number 11", page1.Posts[0].Title)

	page3, err := f.posts.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, page3.Posts, 2)
	assert.EqualValues(t, 12, page3.TotalPosts)
	assert.Equal(t, "Post number 00", page3.Posts[1].Title)

	page4, err := f.posts.List(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, page4.Posts)

	clamped, err := f.posts.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, page1.Posts[0].ID, clamped.Posts[0].ID)

	for _, p := range page1.Posts {
		require.NotNil(t, p.Creator)
		assert.Equal(t, "p@example.com", p.Creator.Email)
	}
}

func TestGetPosts_RepeatedReadsAreIdentical(t *testing.T) {
	f := newFixture(t)
	ctx, _ := f.register(t, "r@example.com")
	other, _ := f.register(t, "r2@example.com")
	for i := 0; i < 4; i++ {
		f.createPost(t, ctx, fmt.Sprintf("Mine %d post", i))
		f.createPost(t, other, fmt.Sprintf("Theirs %d post", i))
	}

	ids := func() []string {
		page, err := f.posts.List(ctx, 1)
		require.NoError(t, err)
		out := make([]string, 0, len(page.Posts))
		for _, p := range page.Posts {
			out = append(out, p.ID)
		}
		return out
	}
	first := ids()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ids())
	}
}

func TestGetPostById_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx, _ := f.register(t, "nf@example.com")

	_, err := f.posts.Get(ctx, "does-not-exist")
	ae := apperror.From(err)
	assert.Equal(t, apperror.KindNotFound, ae.Kind)
	assert.Equal(t, MsgPostNotFound, ae.Message)
}

func TestUpdatePost(t *testing.T) {
	f := newFixture(t)
	ctx, _ := f.register(t, "u@example.com")
	p := f.createPost(t, ctx, "Original")

	updated, err := f.posts.Update(ctx, p.ID, PostInput{Title: "Changed title", Content: "Changed content", ImageURL: KeepImage})
	require.NoError(t, err)
	assert.Equal(t, "Changed title", updated.Title)
	assert.Equal(t, p.ImageURL, updated.ImageURL)
	assert.False(t, updated.UpdatedAt.Before(p.CreatedAt))
	assert.NotNil(t, updated.Creator)

	updated, err = f.posts.Update(ctx, p.ID, PostInput{Title: "Changed title", Content: "Changed content", ImageURL: "images/2-new.png"})
	require.NoError(t, err)
	assert.Equal(t, "images/2-new.png", updated.ImageURL)

	stored, err := f.store.Posts().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "images/2-new.png", stored.ImageURL)
	assert.Equal(t, "Changed content", stored.Content)
	assert.Contains(t, f.pub.types(), events.PostUpdated)
}

func TestUpdatePost_RefreshesUpdatedAt(t *testing.T) {
	f := newFixture(t)
	ctx, _ := f.register(t, "ts@example.com")
	p := f.createPost(t, ctx, "Timestamps")
	time.Sleep(5 * time.Millisecond)

	updated, err := f.posts.Update(ctx, p.ID, PostInput{Title: "Timestamps", Content: "Some content here", ImageURL: KeepImage})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(p.CreatedAt))
}

func TestUpdatePost_ValidationBeforeFetch(t *testing.T) {
	f := newFixture(t)
	ctx, _ := f.register(t, "vf@example.com")

	_, err := f.posts.Update(ctx, "missing", PostInput{Title: "no", Content: "no"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.posts.Update(ctx, "missing", PostInput{Title: "long enough", Content: "long enough"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestOwnership(t *testing.T) {
	f := newFixture(t)
	ownerCtx, owner := f.register(t, "owner@example.com")
	intruderCtx, _ := f.register(t, "intruder@example.com")
	p := f.createPost(t, ownerCtx, "Owned post")

	_, err := f.posts.Update(intruderCtx, p.ID, PostInput{Title: "Pwned title", Content: "Pwned content", ImageURL: "evil"})
	ae := apperror.From(err)
	assert.Equal(t, apperror.KindForbidden, ae.Kind)
	assert.Equal(t, MsgNotAuthorized, ae.Message)
	assert.Equal(t, 403, ae.Status())

	_, err = f.posts.Delete(intruderCtx, p.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	stored, err := f.store.Posts().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Owned post", stored.Title)
	assert.Equal(t, p.ImageURL, stored.ImageURL)
	assert.True(t, stored.UpdatedAt.Equal(p.UpdatedAt))

	u, err := f.store.Users().GetByID(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, u.PostIDs)
	assert.Empty(t, f.images.deleted)
}

func TestDeletePost_Cascade(t *testing.T) {
	f := newFixture(t)
	ctx, u := f.register(t, "d@example.com")
	keep := f.createPost(t, ctx, "Keep this one")
	gone := f.createPost(t, ctx, "Delete this one")

	res, err := f.posts.Delete(ctx, gone.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Deleting successful", res.Message)

	stored, err := f.store.Users().GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, stored.PostIDs)

	_, err = f.posts.Get(ctx, gone.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	assert.Equal(t, []string{gone.ImageURL}, f.images.deleted)
	assert.Equal(t, []string{gone.ID}, f.index.deleted)
	assert.Contains(t, f.pub.types(), events.PostDeleted)

	_, err = f.posts.Delete(ctx, gone.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeletePost_ImageFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	ctx, _ := f.register(t, "img@example.com")
	p := f.createPost(t, ctx, "With image")
	f.images.err = errors.New("disk on fire")

	res, err := f.posts.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Zero(t, postCount(t, f))
}

func TestSearchPosts(t *testing.T) {
	f := newFixture(t)
	ctx, _ := f.register(t, "s@example.com")
	a := f.createPost(t, ctx, "Alpha post")
	b := f.createPost(t, ctx, "Bravo post")
	f.index.hits = []string{b.ID, "stale-id", a.ID}

	page, err := f.posts.Search(ctx, "post", 0)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, b.ID, page.Posts[0].ID)
	assert.Equal(t, a.ID, page.Posts[1].ID)
	assert.EqualValues(t, 2, page.TotalPosts)
	assert.NotNil(t, page.Posts[0].Creator)

	empty, err := f.posts.Search(ctx, "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, empty.Posts)
}
