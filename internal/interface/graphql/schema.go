package graphql

import (
	graphql "github.com/graph-gophers/graphql-go"
)

// Schema is the public API. Type and field names are part of the contract with clients.
const Schema = `
schema {
	query: RootQuery
	mutation: RootMutation
}

type Post {
	_id: ID!
	title: String!
	content: String!
	imageUrl: String!
	creator: User!
	createdAt: String!
	updatedAt: String!
}

type User {
	_id: ID!
	name: String!
	email: String!
	password: String
	status: String!
	posts: [Post!]!
}

input UserInputData {
	email: String!
	name: String!
	password: String!
}

input PostInputData {
	title: String!
	content: String!
	imageUrl: String!
}

type AuthData {
	token: String!
	userId: String!
}

type PostsData {
	posts: [Post!]!
	totalPosts: Int!
}

type successMessage {
	message: String
	success: Boolean
}

type RootMutation {
	createUser(userInput: UserInputData!): User!
	createPost(postInput: PostInputData!): Post!
	deletePost(postId: String!): successMessage
	updatePost(postId: String!, postInput: PostInputData!): Post!
	updateUserStatus(status: String!): User!
}

type RootQuery {
	login(email: String!, password: String!): AuthData!
	getPosts(page: Int): PostsData!
	getPostById(postId: ID!): Post!
	user: User!
	searchPosts(query: String!, limit: Int): PostsData!
}
`

// maxQueryDepth bounds nested post/creator/posts selections.
const maxQueryDepth = 10

// NewSchema parses Schema against r.
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(Schema, r, graphql.MaxDepth(maxQueryDepth))
}
