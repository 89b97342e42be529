package blog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pressroom/models"
	"pressroom/newsletter"
	"pressroom/store"
	"pressroom/views"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.AutoMigrate(&models.User{}, &models.Post{}, &models.Category{}, &models.Tag{},
		&models.PostTag{}, &models.Comment{}, &models.View{}, &models.NewsletterSubscriber{})
	return db
}

func setupTestModule(db *gorm.DB) *BlogModule {
	return NewBlogModule(
		db,
		store.NewPostStore(db, nil),
		store.NewCommentStore(db),
		views.NewRecorder(db),
		newsletter.NewSubscribers(db),
	)
}

func createTestPost(db *gorm.DB, published bool) *models.Post {
	now := time.Now()
	post := &models.Post{
		UserID:    1,
		Title:     "Test Post",
		Slug:      "test-post",
		Content:   "# Test Content\n\nThis is a **test** post.",
		Published: published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if published {
		post.PublishedAt = &now
	}
	db.Create(post)
	return post
}

func TestGetBySlug(t *testing.T) {
	db := setupTestDB()
	blogModule := setupTestModule(db)

	expected := createTestPost(db, true)

	post, err := blogModule.posts.GetBySlug("test-post")

	assert.NoError(t, err)
	assert.Equal(t, expected.ID, post.ID)
	assert.Equal(t, expected.Title, post.Title)
}

func TestIndex_OnlyPublishedPosts(t *testing.T) {
	db := setupTestDB()

	createTestPost(db, true)

	draft := &models.Post{UserID: 1, Title: "Draft", Slug: "draft"}
	db.Create(draft)

	var posts []models.Post
	db.Where("published = ?", true).Order("published_at DESC").Find(&posts)

	assert.Equal(t, 1, len(posts))
	assert.Equal(t, "test-post", posts[0].Slug)
}

func TestApprovedCommentsOnly(t *testing.T) {
	db := setupTestDB()
	blogModule := setupTestModule(db)

	post := createTestPost(db, true)

	approved := &models.Comment{PostID: int(post.ID), UserID: 1, Content: "visible", Approved: true}
	db.Create(approved)
	pending := &models.Comment{PostID: int(post.ID), UserID: 2, Content: "hidden", Approved: false}
	db.Create(pending)

	comments, err := blogModule.comments.ApprovedForPost(int(post.ID))

	assert.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Equal(t, "visible", comments[0].Content)
}

func TestRenderMarkdown_Headers(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Header 1", "<h1>Header 1</h1>"},
		{"## Header 2", "<h2>Header 2</h2>"},
		{"### Header 3", "<h3>Header 3</h3>"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := renderMarkdown(tt.input)
			assert.Contains(t, result, tt.expected)
		})
	}
}

func TestRenderMarkdown_Lists(t *testing.T) {
	input := "- Item 1\n- Item 2\n- Item 3"
	result := renderMarkdown(input)

	assert.Contains(t, result, "<ul>")
	assert.Contains(t, result, "<li>Item 1</li>")
	assert.Contains(t, result, "</ul>")
}

func TestRenderMarkdown_CodeBlock(t *testing.T) {
	input := "```\ncode here\n```"
	result := renderMarkdown(input)

	assert.Contains(t, result, "<pre><code>")
	assert.Contains(t, result, "code here")
	assert.Contains(t, result, "</code></pre>")
}
