package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-graphql-blog/internal/domain/apperror"
	"github.com/oksasatya/go-graphql-blog/internal/domain/entity"
	repo "github.com/oksasatya/go-graphql-blog/internal/domain/repository"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/events"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/search"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/storage"
	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
)

const (
	PageSize = 5
	// KeepImage as imageUrl on update leaves the stored image untouched.
	KeepImage = "undefined"
)

// PostInput is the create/update payload.
type PostInput struct {
	Title    string `json:"title" validate:"min=5" msg:"Title input not valid."`
	Content  string `json:"content" validate:"min=5" msg:"Content input not valid"`
	ImageURL string `json:"imageUrl"`
}

func (in PostInput) validate() error {
	return validate(MsgInvalidPostInput, PostInput{
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
	})
}

// PostDetail is a post composed with its creator.
type PostDetail struct {
	*entity.Post
	Creator *entity.User
}

// PostPage is one page of the feed plus the total number of posts.
type PostPage struct {
	Posts      []PostDetail
	TotalPosts int64
}

// DeleteResult acknowledges a deletion.
type DeleteResult struct {
	Success bool
	Message string
}

type PostService struct {
	Posts  repo.PostRepository
	Users  repo.UserRepository
	Images storage.ImageStore
	Index  search.PostIndexer
	Events events.Publisher
	Logger logrus.FieldLogger
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, images storage.ImageStore, index search.PostIndexer, pub events.Publisher, logger logrus.FieldLogger) *PostService {
	if index == nil {
		index = search.Noop{}
	}
	if pub == nil {
		pub = events.Noop{}
	}
	return &PostService{Posts: posts, Users: users, Images: images, Index: index, Events: pub, Logger: logger}
}

// Create saves a post for the authenticated user and appends it to the user's post list.
// If the append fails the post is removed again, so the feed never shows a post its
// creator's list does not contain for longer than the two writes take.
func (s *PostService) Create(ctx context.Context, in PostInput) (*PostDetail, error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	creator, err := s.Users.GetByID(ctx, id.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.Unauthenticated(MsgInvalidUser)
		}
		return nil, unexpected("get creator", err)
	}

	p := &entity.Post{
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		CreatorID: creator.ID,
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, unexpected("create post", err)
	}
	if err := s.Users.AppendPost(ctx, creator.ID, p.ID); err != nil {
		if derr := s.Posts.Delete(ctx, p.ID); derr != nil && !isNotFound(derr) {
			helpers.LogError(s.Logger, "compensating post delete failed", derr, logrus.Fields{"post_id": p.ID, "user_id": creator.ID})
		}
		if isNotFound(err) {
			return nil, apperror.Unauthenticated(MsgInvalidUser)
		}
		return nil, unexpected("append post", err)
	}
	creator.PostIDs = append(creator.PostIDs, p.ID)

	s.index(ctx, p)
	publish(ctx, s.Events, s.Logger, events.Event{Type: events.PostCreated, UserID: creator.ID, PostID: p.ID})
	return &PostDetail{Post: p, Creator: creator}, nil
}

// List returns one page of the feed, newest first. Pages start at 1; lower values read page 1.
func (s *PostService) List(ctx context.Context, page int) (*PostPage, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	posts, err := s.Posts.List(ctx, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, unexpected("list posts", err)
	}
	total, err := s.Posts.Count(ctx)
	if err != nil {
		return nil, unexpected("count posts", err)
	}
	details, err := s.compose(ctx, posts)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: details, TotalPosts: total}, nil
}

// Get returns a single post with its creator.
func (s *PostService) Get(ctx context.Context, postID string) (*PostDetail, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.withCreator(ctx, p)
}

// Update replaces title and content of a post owned by the authenticated user.
// The image is replaced unless imageUrl is KeepImage.
func (s *PostService) Update(ctx context.Context, postID string, in PostInput) (*PostDetail, error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !p.IsCreatedBy(id.UserID) {
		return nil, apperror.Forbidden(MsgNotAuthorized)
	}

	p.Title = in.Title
	p.Content = in.Content
	if in.ImageURL != KeepImage {
		p.ImageURL = in.ImageURL
	}
	p.UpdatedAt = helpers.NowUTC()
	if err := s.Posts.Update(ctx, p); err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound(MsgPostNotFound)
		}
		return nil, unexpected("update post", err)
	}

	s.index(ctx, p)
	publish(ctx, s.Events, s.Logger, events.Event{Type: events.PostUpdated, UserID: id.UserID, PostID: p.ID})
	return s.withCreator(ctx, p)
}

// Delete removes a post owned by the authenticated user, releases its image
// and drops it from the creator's post list.
func (s *PostService) Delete(ctx context.Context, postID string) (*DeleteResult, error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !p.IsCreatedBy(id.UserID) {
		return nil, apperror.Forbidden(MsgNotAuthorized)
	}

	s.releaseImage(ctx, p.ImageURL)

	if err := s.Posts.Delete(ctx, p.ID); err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound(MsgPostNotFound)
		}
		return nil, unexpected("delete post", err)
	}
	if err := s.Users.RemovePost(ctx, p.CreatorID, p.ID); err != nil {
		if !isNotFound(err) {
			return nil, unexpected("remove post from user", err)
		}
		helpers.LogWarn(s.Logger, "creator missing on post delete", err, logrus.Fields{"post_id": p.ID, "user_id": p.CreatorID})
	}

	if err := s.Index.Delete(ctx, p.ID); err != nil {
		helpers.LogWarn(s.Logger, "search delete failed", err, logrus.Fields{"post_id": p.ID})
	}
	publish(ctx, s.Events, s.Logger, events.Event{Type: events.PostDeleted, UserID: id.UserID, PostID: p.ID})
	return &DeleteResult{Success: true, Message: MsgDeletingSuccessful}, nil
}

// Search runs a full-text query and returns the matching posts, best match first.
// TotalPosts is the number of hits returned.
func (s *PostService) Search(ctx context.Context, query string, limit int) (*PostPage, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return &PostPage{Posts: []PostDetail{}}, nil
	}
	ids, err := s.Index.Search(ctx, query, search.ClampLimit(limit))
	if err != nil {
		return nil, unexpected("search posts", err)
	}
	posts, err := s.Posts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, unexpected("get posts", err)
	}
	details, err := s.compose(ctx, posts)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: details, TotalPosts: int64(len(details))}, nil
}

// ReleaseImage drops a stored image that is no longer referenced.
func (s *PostService) ReleaseImage(ctx context.Context, filePath string) {
	s.releaseImage(ctx, filePath)
}

func (s *PostService) releaseImage(ctx context.Context, filePath string) {
	if s.Images == nil || filePath == "" || filePath == KeepImage {
		return
	}
	if err := s.Images.Delete(ctx, filePath); err != nil {
		helpers.LogWarn(s.Logger, "release image failed", err, logrus.Fields{"path": filePath})
	}
}

func (s *PostService) load(ctx context.Context, postID string) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound(MsgPostNotFound)
		}
		return nil, unexpected("get post", err)
	}
	return p, nil
}

func (s *PostService) withCreator(ctx context.Context, p *entity.Post) (*PostDetail, error) {
	creator, err := s.Users.GetByID(ctx, p.CreatorID)
	if err != nil {
		return nil, unexpected("get creator", fmt.Errorf("post %s: %w", p.ID, err))
	}
	return &PostDetail{Post: p, Creator: creator}, nil
}

// compose attaches creators to posts with a single batched user lookup.
func (s *PostService) compose(ctx context.Context, posts []*entity.Post) ([]PostDetail, error) {
	out := make([]PostDetail, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}
	seen := make(map[string]struct{}, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.CreatorID]; !ok {
			seen[p.CreatorID] = struct{}{}
			ids = append(ids, p.CreatorID)
		}
	}
	creators, err := s.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, unexpected("get creators", err)
	}
	for _, p := range posts {
		c, ok := creators[p.CreatorID]
		if !ok {
			return nil, unexpected("get creators", fmt.Errorf("post %s: creator %s missing", p.ID, p.CreatorID))
		}
		out = append(out, PostDetail{Post: p, Creator: c})
	}
	return out, nil
}

func (s *PostService) index(ctx context.Context, p *entity.Post) {
	if err := s.Index.Index(ctx, p); err != nil {
		helpers.LogWarn(s.Logger, "search index failed", err, logrus.Fields{"post_id": p.ID})
	}
}
