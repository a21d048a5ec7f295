package service

import (
	"context"
	"fmt"

	"wayfarer/internal/models"
	"wayfarer/internal/repository"
)

type CreatePostRequest struct {
	AuthorID string `json:"authorId"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Location string `json:"location"`
	ImageURL string `json:"imageUrl"`
}

type UpdatePostRequest struct {
	PostID   string `json:"postId"`
	ActorID  string `json:"actorId"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Location string `json:"location"`
}

type PostService interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error)
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, postID, actorID string) error
	AddComment(ctx context.Context, postID, authorID, content string) (*models.Comment, error)
	ListComments(ctx context.Context, postID string) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, commentID, actorID string) error
	LikePost(ctx context.Context, postID, userID string) error
	UnlikePost(ctx context.Context, postID, userID string) error
}

type postService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) PostService {
	return &postService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

func (p *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		AuthorID: req.AuthorID,
		Title:    req.Title,
		Content:  req.Content,
		Location: req.Location,
	}

	if req.ImageURL != "" {
		post.ImageURL = &req.ImageURL
	}

	if err := p.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	return p.postRepo.GetByID(ctx, postID)
}

func (p *postService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return p.postRepo.List(ctx, limit, offset)
}

func (p *postService) UpdatePost(ctx context.Context, req UpdatePostRequest) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != req.ActorID {
		return nil, fmt.Errorf("post %s: %w", req.PostID, models.ErrForbidden)
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Location = req.Location

	if err := p.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) DeletePost(ctx context.Context, postID, actorID string) error {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != actorID {
		return fmt.Errorf("post %s: %w", postID, models.ErrForbidden)
	}

	return p.postRepo.Delete(ctx, postID)
}

func (p *postService) AddComment(ctx context.Context, postID, authorID, content string) (*models.Comment, error) {
	// comments on missing posts must 404, not violate the FK
	if _, err := p.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}

	if err := p.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (p *postService) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if _, err := p.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	return p.commentRepo.ListByPost(ctx, postID)
}

func (p *postService) DeleteComment(ctx context.Context, commentID, actorID string) error {
	comment, err := p.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != actorID {
		return fmt.Errorf("comment %s: %w", commentID, models.ErrForbidden)
	}

	return p.commentRepo.Delete(ctx, commentID)
}

func (p *postService) LikePost(ctx context.Context, postID, userID string) error {
	if _, err := p.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}

	return p.postRepo.Like(ctx, postID, userID)
}

func (p *postService) UnlikePost(ctx context.Context, postID, userID string) error {
	return p.postRepo.Unlike(ctx, postID, userID)
}
