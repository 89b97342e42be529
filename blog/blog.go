package blog

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"

	"pressroom/common"
	"pressroom/models"
	"pressroom/newsletter"
	"pressroom/policy"
	"pressroom/store"
	"pressroom/views"
)

// markdown renderer configured with Goldmark and useful extensions
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,     // tables, strikethrough, task lists, autolinks (GFM set)
		extension.Linkify, // linkify raw URLs
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(), // allow raw HTML passthrough in Markdown
	),
)

type BlogModule struct {
	db          *gorm.DB
	posts       *store.PostStore
	comments    *store.CommentStore
	recorder    *views.Recorder
	subscribers *newsletter.Subscribers
}

func NewBlogModule(db *gorm.DB, posts *store.PostStore, comments *store.CommentStore,
	recorder *views.Recorder, subscribers *newsletter.Subscribers) *BlogModule {
	return &BlogModule{
		db:          db,
		posts:       posts,
		comments:    comments,
		recorder:    recorder,
		subscribers: subscribers,
	}
}

func (b *BlogModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", b.index)
	router.GET("/post/:slug", b.post)
	router.POST("/post/:slug/comments", b.createComment)
	router.GET("/category/:slug", b.category)
	router.POST("/newsletter/subscribe", b.subscribe)
	router.GET("/newsletter/unsubscribe/:token", b.unsubscribe)
}

func (b *BlogModule) index(c *gin.Context) {
	var posts []models.Post
	if err := b.db.Where("published = ?", true).
		Order("published_at DESC").
		Find(&posts).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{
			"error": "Error loading posts",
		})
		return
	}

	var categories []models.Category
	b.db.Order("name ASC").Find(&categories)

	c.HTML(http.StatusOK, "blog_index.html", gin.H{
		"posts":      posts,
		"categories": categories,
	})
}

func (b *BlogModule) post(c *gin.Context) {
	postSlug := c.Param("slug")

	post, err := b.posts.GetBySlug(postSlug)
	if err != nil || !post.Published {
		c.HTML(http.StatusNotFound, "blog_error.html", gin.H{
			"error": "Post not found",
		})
		return
	}

	user := common.CurrentUser(b.db, c)
	var userID *int
	if user != nil {
		userID = &user.ID
	}
	b.recorder.RecordFromRequest(c, int(post.ID), userID)

	comments, _ := b.comments.ApprovedForPost(int(post.ID))

	var category *models.Category
	if post.CategoryID != nil {
		var cat models.Category
		if err := b.db.First(&cat, *post.CategoryID).Error; err == nil {
			category = &cat
		}
	}

	contentHTML := template.HTML(renderMarkdown(post.Content))

	c.HTML(http.StatusOK, "blog_post.html", gin.H{
		"post": gin.H{
			"ID":          post.ID,
			"Title":       post.Title,
			"Slug":        post.Slug,
			"Content":     contentHTML,
			"PublishedAt": post.PublishedAt,
			"ViewsCount":  post.ViewsCount,
		},
		"category": category,
		"comments": comments,
		"user":     user,
	})
}

func (b *BlogModule) category(c *gin.Context) {
	categorySlug := c.Param("slug")

	var category models.Category
	if err := b.db.Where("slug = ?", categorySlug).First(&category).Error; err != nil {
		c.HTML(http.StatusNotFound, "blog_error.html", gin.H{
			"error": "Category not found",
		})
		return
	}

	var posts []models.Post
	if err := b.db.Where("category_id = ? AND published = ?", category.ID, true).
		Order("published_at DESC").
		Find(&posts).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{
			"error": "Error loading posts",
		})
		return
	}

	c.HTML(http.StatusOK, "blog_category.html", gin.H{
		"category": category,
		"posts":    posts,
	})
}

func (b *BlogModule) createComment(c *gin.Context) {
	postSlug := c.Param("slug")

	post, err := b.posts.GetBySlug(postSlug)
	if err != nil || !post.Published {
		c.HTML(http.StatusNotFound, "blog_error.html", gin.H{
			"error": "Post not found",
		})
		return
	}

	user := common.CurrentUser(b.db, c)
	if !policy.CanCreateComment(user) {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	content := c.PostForm("content")
	if content == "" {
		c.Redirect(http.StatusFound, "/post/"+postSlug)
		return
	}

	comment := models.Comment{
		PostID:  int(post.ID),
		UserID:  user.ID,
		Content: content,
	}
	if err := b.comments.Create(&comment); err != nil {
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{
			"error": "Error saving comment",
		})
		return
	}

	c.Redirect(http.StatusFound, "/post/"+postSlug)
}

func (b *BlogModule) subscribe(c *gin.Context) {
	email := c.PostForm("email")
	if email == "" {
		c.HTML(http.StatusBadRequest, "blog_subscribe.html", gin.H{
			"error": "Email is required",
		})
		return
	}

	if _, err := b.subscribers.Subscribe(email); err != nil {
		c.HTML(http.StatusInternalServerError, "blog_subscribe.html", gin.H{
			"error": "Error subscribing",
			"email": email,
		})
		return
	}

	c.HTML(http.StatusOK, "blog_subscribe.html", gin.H{
		"success": true,
		"email":   email,
	})
}

func (b *BlogModule) unsubscribe(c *gin.Context) {
	token := c.Param("token")

	if err := b.subscribers.Unsubscribe(token); err != nil {
		c.HTML(http.StatusNotFound, "blog_unsubscribe.html", gin.H{
			"success": false,
			"message": "Invalid unsubscribe link",
		})
		return
	}

	c.HTML(http.StatusOK, "blog_unsubscribe.html", gin.H{
		"success": true,
		"message": "You have been unsubscribed.",
	})
}

func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		// on error, fall back to the raw content so the page still renders
		return content
	}
	return buf.String()
}
