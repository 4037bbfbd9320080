package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "nexusboard/pkg/errors"
)

// UserRepository persists accounts.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("an account with this email already exists")
		}
		return apperrors.NewStorageError("create user", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(email string) (*User, error) {
	var user User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %s", email))
	}
	if err != nil {
		return nil, apperrors.NewStorageError("find user", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(id string) (*User, error) {
	var user User
	err := r.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %s", id))
	}
	if err != nil {
		return nil, apperrors.NewStorageError("find user", err)
	}
	return &user, nil
}

// ProjectRepository persists boards.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(project *Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return apperrors.NewStorageError("create project", err)
	}
	return nil
}

func (r *ProjectRepository) ListByUser(userID string) ([]Project, error) {
	var projects []Project
	if err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&projects).Error; err != nil {
		return nil, apperrors.NewStorageError("list projects", err)
	}
	return projects, nil
}

func (r *ProjectRepository) FindByID(id string) (*Project, error) {
	var project Project
	err := r.db.First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("project %s", id))
	}
	if err != nil {
		return nil, apperrors.NewStorageError("find project", err)
	}
	return &project, nil
}

// StateRepository keeps the latest snapshot per project.
type StateRepository struct {
	db *gorm.DB
}

func NewStateRepository(db *gorm.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Save upserts: each push replaces the previous snapshot.
func (r *StateRepository) Save(state *ProjectState) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		UpdateAll: true,
	}).Create(state).Error
	if err != nil {
		return apperrors.NewStorageError("save project state", err)
	}
	return nil
}

func (r *StateRepository) Load(projectID string) (*ProjectState, error) {
	var state ProjectState
	err := r.db.First(&state, "project_id = ?", projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("project state for %s", projectID))
	}
	if err != nil {
		return nil, apperrors.NewStorageError("load project state", err)
	}
	return &state, nil
}

// FileRepository persists uploaded files and import records.
type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) SaveUploaded(file *UploadedFile) error {
	if err := r.db.Create(file).Error; err != nil {
		return apperrors.NewStorageError("save uploaded file", err)
	}
	return nil
}

func (r *FileRepository) ListUploaded(projectID string) ([]UploadedFile, error) {
	var files []UploadedFile
	query := r.db.Omit("content").Order("created_at desc")
	if projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if err := query.Find(&files).Error; err != nil {
		return nil, apperrors.NewStorageError("list uploaded files", err)
	}
	return files, nil
}

func (r *FileRepository) DeleteUploaded(fileID, userID string) error {
	result := r.db.Where("id = ? AND user_id = ?", fileID, userID).Delete(&UploadedFile{})
	if result.Error != nil {
		return apperrors.NewStorageError("delete uploaded file", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("file %s", fileID))
	}
	return nil
}

func (r *FileRepository) SaveImport(record *FileImport) error {
	if err := r.db.Create(record).Error; err != nil {
		return apperrors.NewStorageError("save file import", err)
	}
	return nil
}

// PostRepository persists the social feed.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(post *Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return apperrors.NewStorageError("create post", err)
	}
	return nil
}

// List returns a page of posts, newest first, plus the total post count.
func (r *PostRepository) List(offset, limit int) ([]Post, int, error) {
	var total int64
	if err := r.db.Model(&Post{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewStorageError("count posts", err)
	}

	var posts []Post
	err := r.db.Order("created_at desc").Offset(offset).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, 0, apperrors.NewStorageError("list posts", err)
	}
	return posts, int(total), nil
}

// CountLikes returns the like total and whether the given user liked the post.
func (r *PostRepository) CountLikes(postID, userID string) (int64, bool, error) {
	var count int64
	if err := r.db.Model(&Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, false, apperrors.NewStorageError("count likes", err)
	}

	liked := false
	if userID != "" {
		var mine int64
		err := r.db.Model(&Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&mine).Error
		if err != nil {
			return 0, false, apperrors.NewStorageError("count likes", err)
		}
		liked = mine > 0
	}
	return count, liked, nil
}

func (r *PostRepository) FindByID(id string) (*Post, error) {
	var post Post
	err := r.db.First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("post %s", id))
	}
	if err != nil {
		return nil, apperrors.NewStorageError("find post", err)
	}
	return &post, nil
}

// ToggleLike adds the user's like, or removes it when already present, and
// returns the new count plus whether the user now likes the post.
func (r *PostRepository) ToggleLike(postID, userID string) (int64, bool, error) {
	if _, err := r.FindByID(postID); err != nil {
		return 0, false, err
	}

	liked := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing Like
		findErr := tx.First(&existing, "post_id = ? AND user_id = ?", postID, userID).Error
		switch {
		case findErr == nil:
			return tx.Delete(&existing).Error
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			liked = true
			return tx.Create(&Like{PostID: postID, UserID: userID}).Error
		default:
			return findErr
		}
	})
	if err != nil {
		return 0, false, apperrors.NewStorageError("toggle like", err)
	}

	var count int64
	if err := r.db.Model(&Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, false, apperrors.NewStorageError("count likes", err)
	}
	return count, liked, nil
}

func (r *PostRepository) ListComments(postID string) ([]Comment, error) {
	var comments []Comment
	if err := r.db.Where("post_id = ?", postID).Order("created_at asc").Find(&comments).Error; err != nil {
		return nil, apperrors.NewStorageError("list comments", err)
	}
	return comments, nil
}

func (r *PostRepository) AddComment(comment *Comment) error {
	if _, err := r.FindByID(comment.PostID); err != nil {
		return err
	}
	if err := r.db.Create(comment).Error; err != nil {
		return apperrors.NewStorageError("add comment", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
