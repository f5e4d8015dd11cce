package graphql

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/oksasatya/go-graphql-blog/internal/application"
	"github.com/oksasatya/go-graphql-blog/internal/domain/entity"
	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
)

// Resolver is the root of both RootQuery and RootMutation. It adapts GraphQL
// arguments to the application services and shapes their results.
type Resolver struct {
	Auth  *application.AuthService
	Posts *application.PostService
	Users *application.UserService
}

func NewResolver(auth *application.AuthService, posts *application.PostService, users *application.UserService) *Resolver {
	return &Resolver{Auth: auth, Posts: posts, Users: users}
}

type userInputArgs struct {
	Email    string
	Name     string
	Password string
}

type postInputArgs struct {
	Title    string
	Content  string
	ImageURL string
}

func (in postInputArgs) toInput() application.PostInput {
	return application.PostInput{Title: in.Title, Content: in.Content, ImageURL: in.ImageURL}
}

// Queries

func (r *Resolver) Login(ctx context.Context, args struct{ Email, Password string }) (*authDataResolver, error) {
	res, err := r.Auth.Login(ctx, args.Email, args.Password)
	if err != nil {
		return nil, err
	}
	return &authDataResolver{token: res.Token, userID: res.UserID}, nil
}

func (r *Resolver) GetPosts(ctx context.Context, args struct{ Page *int32 }) (*postsDataResolver, error) {
	page := 1
	if args.Page != nil {
		page = int(*args.Page)
	}
	res, err := r.Posts.List(ctx, page)
	if err != nil {
		return nil, err
	}
	return r.postsData(res), nil
}

func (r *Resolver) GetPostByID(ctx context.Context, args struct{ PostID graphql.ID }) (*postResolver, error) {
	d, err := r.Posts.Get(ctx, string(args.PostID))
	if err != nil {
		return nil, err
	}
	return r.post(d.Post, d.Creator), nil
}

func (r *Resolver) User(ctx context.Context) (*userResolver, error) {
	u, err := r.Users.Me(ctx)
	if err != nil {
		return nil, err
	}
	return r.user(u), nil
}

func (r *Resolver) SearchPosts(ctx context.Context, args struct {
	Query string
	Limit *int32
}) (*postsDataResolver, error) {
	limit := 0
	if args.Limit != nil {
		limit = int(*args.Limit)
	}
	res, err := r.Posts.Search(ctx, args.Query, limit)
	if err != nil {
		return nil, err
	}
	return r.postsData(res), nil
}

// Mutations

func (r *Resolver) CreateUser(ctx context.Context, args struct{ UserInput userInputArgs }) (*userResolver, error) {
	u, err := r.Auth.Register(ctx, application.UserInput{
		Email:    args.UserInput.Email,
		Name:     args.UserInput.Name,
		Password: args.UserInput.Password,
	})
	if err != nil {
		return nil, err
	}
	return r.user(u), nil
}

func (r *Resolver) CreatePost(ctx context.Context, args struct{ PostInput postInputArgs }) (*postResolver, error) {
	d, err := r.Posts.Create(ctx, args.PostInput.toInput())
	if err != nil {
		return nil, err
	}
	return r.post(d.Post, d.Creator), nil
}

func (r *Resolver) UpdatePost(ctx context.Context, args struct {
	PostID    string
	PostInput postInputArgs
}) (*postResolver, error) {
	d, err := r.Posts.Update(ctx, args.PostID, args.PostInput.toInput())
	if err != nil {
		return nil, err
	}
	return r.post(d.Post, d.Creator), nil
}

func (r *Resolver) DeletePost(ctx context.Context, args struct{ PostID string }) (*successMessageResolver, error) {
	res, err := r.Posts.Delete(ctx, args.PostID)
	if err != nil {
		return nil, err
	}
	return &successMessageResolver{message: res.Message, success: res.Success}, nil
}

func (r *Resolver) UpdateUserStatus(ctx context.Context, args struct{ Status string }) (*userResolver, error) {
	u, err := r.Users.UpdateStatus(ctx, args.Status)
	if err != nil {
		return nil, err
	}
	return r.user(u), nil
}

// shaping

func (r *Resolver) user(u *entity.User) *userResolver {
	return &userResolver{root: r, u: u}
}

func (r *Resolver) post(p *entity.Post, creator *entity.User) *postResolver {
	return &postResolver{root: r, p: p, creator: creator}
}

func (r *Resolver) postsData(page *application.PostPage) *postsDataResolver {
	posts := make([]*postResolver, 0, len(page.Posts))
	for _, d := range page.Posts {
		posts = append(posts, r.post(d.Post, d.Creator))
	}
	return &postsDataResolver{posts: posts, total: int32(page.TotalPosts)}
}

type postResolver struct {
	root    *Resolver
	p       *entity.Post
	creator *entity.User
}

func (r *postResolver) ID() graphql.ID         { return graphql.ID(r.p.ID) }
func (r *postResolver) Title() string          { return r.p.Title }
func (r *postResolver) Content() string        { return r.p.Content }
func (r *postResolver) ImageURL() string       { return r.p.ImageURL }
func (r *postResolver) Creator() *userResolver { return r.root.user(r.creator) }
func (r *postResolver) CreatedAt() string      { return helpers.ISOTime(r.p.CreatedAt) }
func (r *postResolver) UpdatedAt() string      { return helpers.ISOTime(r.p.UpdatedAt) }

type userResolver struct {
	root *Resolver
	u    *entity.User
}

func (r *userResolver) ID() graphql.ID { return graphql.ID(r.u.ID) }
func (r *userResolver) Name() string   { return r.u.Name }
func (r *userResolver) Email() string  { return r.u.Email }
func (r *userResolver) Status() string { return r.u.Status }

// Password is part of the schema but never exposed.
func (r *userResolver) Password() *string { return nil }

func (r *userResolver) Posts(ctx context.Context) ([]*postResolver, error) {
	posts, err := r.root.Users.PostsOf(ctx, r.u)
	if err != nil {
		return nil, err
	}
	out := make([]*postResolver, 0, len(posts))
	for _, p := range posts {
		out = append(out, r.root.post(p, r.u))
	}
	return out, nil
}

type authDataResolver struct {
	token  string
	userID string
}

func (r *authDataResolver) Token() string  { return r.token }
func (r *authDataResolver) UserID() string { return r.userID }

type postsDataResolver struct {
	posts []*postResolver
	total int32
}

func (r *postsDataResolver) Posts() []*postResolver { return r.posts }
func (r *postsDataResolver) TotalPosts() int32      { return r.total }

type successMessageResolver struct {
	message string
	success bool
}

func (r *successMessageResolver) Message() *string { return &r.message }
func (r *successMessageResolver) Success() *bool   { return &r.success }
