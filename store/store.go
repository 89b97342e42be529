// Package store is the write path for content entities. Slug assignment and
// the publish transition are handled here so that handlers never have to.
package store

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"pressroom/cache"
	"pressroom/models"
	"pressroom/queue"
	"pressroom/slug"
)

// ErrCategoryNotEmpty is returned when deleting a category that still has posts.
var ErrCategoryNotEmpty = errors.New("category has associated posts")

// Emitter receives the publish event. Satisfied by *queue.Queue.
type Emitter interface {
	Emit(ev queue.PostPublished)
}

type PostStore struct {
	db      *gorm.DB
	emitter Emitter
}

func NewPostStore(db *gorm.DB, emitter Emitter) *PostStore {
	return &PostStore{db: db, emitter: emitter}
}

func (s *PostStore) Get(id int) (*models.Post, error) {
	var post models.Post
	err := s.db.First(&post, id).Error
	return &post, err
}

func (s *PostStore) GetBySlug(postSlug string) (*models.Post, error) {
	var post models.Post
	err := s.db.Where("slug = ?", postSlug).First(&post).Error
	return &post, err
}

// Create stores a new post. The slug is derived from the title unless one was
// supplied. A post created directly in the published state counts as a publish
// transition and fires the event.
func (s *PostStore) Create(post *models.Post) error {
	post.Slug = slug.ForCreate(post.Title, post.Slug)
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()

	if post.Published && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.db.Create(post).Error; err != nil {
		return err
	}

	if post.Published {
		s.emitPublished(post)
	}
	return nil
}

// Update saves the post and re-derives the slug when the title changed without
// the slug being edited in the same update. The publish event fires only on
// the unpublished-to-published transition, not on every save of a published
// post.
func (s *PostStore) Update(post *models.Post) error {
	var old models.Post
	if err := s.db.First(&old, post.ID).Error; err != nil {
		return err
	}

	post.Slug = slug.ForUpdate(old.Title, post.Title, old.Slug, post.Slug)
	post.UpdatedAt = time.Now()

	justPublished := !old.Published && post.Published
	if justPublished && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	// views_count is incremented concurrently by the view recorder; writing
	// the possibly stale in-memory value would lose views recorded since the
	// post was loaded.
	if err := s.db.Omit("views_count").Save(post).Error; err != nil {
		return err
	}

	cache.Clear(old.Slug)
	if post.Slug != old.Slug {
		cache.Clear(post.Slug)
	}

	if justPublished {
		s.emitPublished(post)
	}
	return nil
}

func (s *PostStore) Delete(id int) error {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		return err
	}

	if err := s.db.Delete(&models.Post{}, id).Error; err != nil {
		return err
	}

	cache.Clear(post.Slug)
	return nil
}

func (s *PostStore) emitPublished(post *models.Post) {
	if s.emitter == nil {
		return
	}

	categoryName := ""
	if post.CategoryID != nil {
		var category models.Category
		if err := s.db.First(&category, *post.CategoryID).Error; err == nil {
			categoryName = category.Name
		}
	}

	s.emitter.Emit(queue.PostPublished{
		PostID:       post.ID,
		Title:        post.Title,
		Slug:         post.Slug,
		Content:      post.Content,
		CategoryName: categoryName,
		PublishedAt:  post.PublishedAt,
	})
}

type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) Get(id int) (*models.Category, error) {
	var category models.Category
	err := s.db.First(&category, id).Error
	return &category, err
}

func (s *CategoryStore) List() ([]models.Category, error) {
	var categories []models.Category
	err := s.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (s *CategoryStore) PostCount(id int) int64 {
	var count int64
	s.db.Model(&models.Post{}).Where("category_id = ?", id).Count(&count)
	return count
}

func (s *CategoryStore) Create(category *models.Category) error {
	category.Slug = slug.ForCreate(category.Name, category.Slug)
	return s.db.Create(category).Error
}

func (s *CategoryStore) Update(category *models.Category) error {
	var old models.Category
	if err := s.db.First(&old, category.ID).Error; err != nil {
		return err
	}

	category.Slug = slug.ForUpdate(old.Name, category.Name, old.Slug, category.Slug)
	return s.db.Save(category).Error
}

// Delete refuses to remove a category that still has posts, even if the
// caller's authorization check was skipped.
func (s *CategoryStore) Delete(id int) error {
	if s.PostCount(id) > 0 {
		return ErrCategoryNotEmpty
	}
	return s.db.Delete(&models.Category{}, id).Error
}

type TagStore struct {
	db *gorm.DB
}

func NewTagStore(db *gorm.DB) *TagStore {
	return &TagStore{db: db}
}

func (s *TagStore) List() ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

func (s *TagStore) Create(tag *models.Tag) error {
	tag.Slug = slug.ForCreate(tag.Name, tag.Slug)
	return s.db.Create(tag).Error
}

func (s *TagStore) Update(tag *models.Tag) error {
	var old models.Tag
	if err := s.db.First(&old, tag.ID).Error; err != nil {
		return err
	}

	tag.Slug = slug.ForUpdate(old.Name, tag.Name, old.Slug, tag.Slug)
	return s.db.Save(tag).Error
}

// SetPostTags replaces a post's tag set with the comma separated names,
// creating tags that don't exist yet.
func (s *TagStore) SetPostTags(postID int, tagsString string) error {
	result := s.db.Where("post_id = ?", postID).Delete(&models.PostTag{})
	if result.Error != nil {
		return result.Error
	}

	if tagsString == "" {
		return nil
	}

	tagNames := strings.Split(tagsString, ",")
	for _, tagName := range tagNames {
		tagName = strings.TrimSpace(tagName)
		if tagName == "" {
			continue
		}

		var tag models.Tag
		err := s.db.Where("name = ?", tagName).First(&tag).Error

		if err == gorm.ErrRecordNotFound {
			tag = models.Tag{Name: tagName, Slug: slug.Make(tagName)}
			if err := s.db.Create(&tag).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var existing models.PostTag
		err = s.db.Where("post_id = ? AND tag_id = ?", postID, tag.ID).First(&existing).Error

		if err == gorm.ErrRecordNotFound {
			postTag := models.PostTag{PostID: postID, TagID: int(tag.ID)}
			if err := s.db.Create(&postTag).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	return nil
}

// PostTagNames returns the post's tag names joined with ", " for edit forms.
func (s *TagStore) PostTagNames(postID int) string {
	var postTags []models.PostTag
	if err := s.db.Where("post_id = ?", postID).Find(&postTags).Error; err != nil {
		return ""
	}

	if len(postTags) == 0 {
		return ""
	}

	var tagIDs []int
	for _, pt := range postTags {
		tagIDs = append(tagIDs, pt.TagID)
	}

	var tags []models.Tag
	if err := s.db.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return ""
	}

	var names []string
	for _, tag := range tags {
		names = append(names, tag.Name)
	}

	return strings.Join(names, ", ")
}

type CommentStore struct {
	db *gorm.DB
}

func NewCommentStore(db *gorm.DB) *CommentStore {
	return &CommentStore{db: db}
}

func (s *CommentStore) Get(id int) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.First(&comment, id).Error
	return &comment, err
}

// Create stores a new comment. Comments always start unapproved.
func (s *CommentStore) Create(comment *models.Comment) error {
	comment.Approved = false
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = time.Now()
	return s.db.Create(comment).Error
}

func (s *CommentStore) UpdateContent(id int, content string) error {
	return s.db.Model(&models.Comment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"content":    content,
		"updated_at": time.Now(),
	}).Error
}

func (s *CommentStore) Approve(id int) error {
	return s.db.Model(&models.Comment{}).Where("id = ?", id).Update("approved", true).Error
}

func (s *CommentStore) Delete(id int) error {
	return s.db.Delete(&models.Comment{}, id).Error
}

// ApprovedForPost returns the visible comments of a post, oldest first.
func (s *CommentStore) ApprovedForPost(postID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Where("post_id = ? AND approved = ?", postID, true).
		Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// Pending returns comments awaiting moderation, oldest first.
func (s *CommentStore) Pending() ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Where("approved = ?", false).Order("created_at ASC").Find(&comments).Error
	return comments, err
}
