package apiclient

import (
	"context"
	"fmt"
)

// Post is a feed entry shared by a user.
type Post struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	Likes     int    `json:"likes"`
	Liked     bool   `json:"liked"`
	CreatedAt string `json:"createdAt"`
}

// Comment is a reply on a post.
type Comment struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

type postResponse struct {
	envelope
	Post Post `json:"post"`
}

type likeResponse struct {
	envelope
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

type postListResponse struct {
	envelope
	Posts []Post `json:"posts"`
}

type commentResponse struct {
	envelope
	Comment Comment `json:"comment"`
}

type commentListResponse struct {
	envelope
	Comments []Comment `json:"comments"`
}

// CreatePost shares a post to the feed.
func (c *Client) CreatePost(ctx context.Context, content string) (Post, error) {
	var resp postResponse
	if err := c.postJSON(ctx, "/api/posts", map[string]string{"content": content}, &resp); err != nil {
		return Post{}, err
	}
	return resp.Post, nil
}

// ListPosts returns one page of the feed, newest first.
func (c *Client) ListPosts(ctx context.Context, page, pageSize int) ([]Post, error) {
	var resp postListResponse
	path := fmt.Sprintf("/api/posts?page=%d&page_size=%d", page, pageSize)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// LikePost toggles the authenticated user's like and returns the new count.
func (c *Client) LikePost(ctx context.Context, postID string) (int, bool, error) {
	var resp likeResponse
	if err := c.postJSON(ctx, fmt.Sprintf("/api/posts/%s/like", postID), struct{}{}, &resp); err != nil {
		return 0, false, err
	}
	return resp.Likes, resp.Liked, nil
}

// ListComments returns a post's comments, oldest first.
func (c *Client) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	var resp commentListResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/api/posts/%s/comments", postID), &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

// AddComment replies to a post.
func (c *Client) AddComment(ctx context.Context, postID, content string) (Comment, error) {
	var resp commentResponse
	if err := c.postJSON(ctx, fmt.Sprintf("/api/posts/%s/comments", postID), map[string]string{"content": content}, &resp); err != nil {
		return Comment{}, err
	}
	return resp.Comment, nil
}
