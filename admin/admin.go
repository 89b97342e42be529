package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pressroom/models"
	"pressroom/newsletter"
	"pressroom/policy"
	"pressroom/store"
	"pressroom/views"
)

type AdminModule struct {
	db          *gorm.DB
	posts       *store.PostStore
	categories  *store.CategoryStore
	tags        *store.TagStore
	comments    *store.CommentStore
	recorder    *views.Recorder
	subscribers *newsletter.Subscribers
}

func NewAdminModule(db *gorm.DB, posts *store.PostStore, categories *store.CategoryStore,
	tags *store.TagStore, comments *store.CommentStore, recorder *views.Recorder,
	subscribers *newsletter.Subscribers) *AdminModule {
	return &AdminModule{
		db:          db,
		posts:       posts,
		categories:  categories,
		tags:        tags,
		comments:    comments,
		recorder:    recorder,
		subscribers: subscribers,
	}
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", a.loginPage)
	router.POST("/login", a.loginPost)
	router.GET("/register", a.registerPage)
	router.POST("/register", a.registerPost)
	router.GET("/admin", a.adminRoot)
	router.GET("/admin/logout", a.logout)

	adminGroup := router.Group("/admin")
	adminGroup.Use(a.requireAuth)
	{
		adminGroup.GET("/dashboard", a.dashboard)
		adminGroup.GET("/posts", a.listPosts)
		adminGroup.GET("/post/new", a.newPost)
		adminGroup.POST("/post/save", a.savePost)
		adminGroup.GET("/post/:id", a.editPost)
		adminGroup.POST("/post/:id", a.updatePost)
		adminGroup.DELETE("/post/:id", a.deletePost)
		adminGroup.GET("/categories", a.listCategories)
		adminGroup.POST("/category/save", a.saveCategory)
		adminGroup.POST("/category/:id", a.updateCategory)
		adminGroup.DELETE("/category/:id", a.deleteCategory)
		adminGroup.GET("/tags", a.listTags)
		adminGroup.POST("/tag/save", a.saveTag)
		adminGroup.GET("/comments", a.listPendingComments)
		adminGroup.POST("/comment/:id/approve", a.approveComment)
		adminGroup.DELETE("/comment/:id", a.deleteComment)
		adminGroup.GET("/users", a.listUsers)
		adminGroup.POST("/user/:id/toggle-active", a.toggleUserActive)
		adminGroup.POST("/user/:id/toggle-admin", a.toggleUserAdmin)
		adminGroup.GET("/subscribers", a.listSubscribers)
		adminGroup.GET("/stats", a.stats)
	}
}

// requireAuth loads the session user into the context, redirecting anonymous
// requests to the login page.
func (a *AdminModule) requireAuth(c *gin.Context) {
	session := sessions.Default(c)
	userID := session.Get("user_id")

	if userID == nil {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		session.Clear()
		session.Save()
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	c.Set("user", &user)
	c.Next()
}

func (a *AdminModule) currentUser(c *gin.Context) *models.User {
	userData, exists := c.Get("user")
	if !exists {
		return nil
	}
	return userData.(*models.User)
}

func (a *AdminModule) forbidden(c *gin.Context) {
	c.HTML(http.StatusForbidden, "admin_error.html", gin.H{
		"error": "You are not allowed to do that",
	})
	c.Abort()
}

func (a *AdminModule) adminRoot(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get("user_id") != nil {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (a *AdminModule) loginPage(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get("user_id") != nil {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}
	c.HTML(http.StatusOK, "admin_login.html", gin.H{})
}

func (a *AdminModule) loginPost(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		c.HTML(http.StatusUnauthorized, "admin_login.html", gin.H{
			"error": "Incorrect email or password",
			"email": email,
		})
		return
	}

	if !checkPasswordHash(password, user.PasswordHash) {
		c.HTML(http.StatusUnauthorized, "admin_login.html", gin.H{
			"error": "Incorrect email or password",
			"email": email,
		})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (a *AdminModule) registerPage(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get("user_id") != nil {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}
	c.HTML(http.StatusOK, "admin_register.html", gin.H{})
}

func (a *AdminModule) registerPost(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	formData := gin.H{"email": email}

	var existingUser models.User
	if err := a.db.Where("email = ?", email).First(&existingUser).Error; err == nil {
		formData["error"] = "This email is already registered"
		c.HTML(http.StatusBadRequest, "admin_register.html", formData)
		return
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		formData["error"] = "Error creating account"
		c.HTML(http.StatusInternalServerError, "admin_register.html", formData)
		return
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	if err := a.db.Create(&user).Error; err != nil {
		formData["error"] = "Error creating account"
		c.HTML(http.StatusInternalServerError, "admin_register.html", formData)
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (a *AdminModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Redirect(http.StatusFound, "/login")
}

func (a *AdminModule) dashboard(c *gin.Context) {
	user := a.currentUser(c)

	var posts []models.Post
	query := a.db.Order("created_at DESC")
	if !user.IsAdmin {
		query = query.Where("user_id = ?", user.ID)
	}
	if err := query.Find(&posts).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Error loading posts",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{
		"user":  user,
		"posts": posts,
	})
}

func (a *AdminModule) listPosts(c *gin.Context) {
	user := a.currentUser(c)

	var posts []models.Post
	query := a.db.Order("created_at DESC")
	if !user.IsAdmin {
		query = query.Where("user_id = ?", user.ID)
	}
	if err := query.Find(&posts).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Error loading posts",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_list_posts.html", gin.H{
		"user":  user,
		"posts": posts,
	})
}

func (a *AdminModule) newPost(c *gin.Context) {
	user := a.currentUser(c)
	if !policy.CanCreatePost(user) {
		a.forbidden(c)
		return
	}

	categories, _ := a.categories.List()

	c.HTML(http.StatusOK, "admin_new_post.html", gin.H{
		"user":       user,
		"categories": categories,
	})
}

func (a *AdminModule) savePost(c *gin.Context) {
	user := a.currentUser(c)
	if !policy.CanCreatePost(user) {
		a.forbidden(c)
		return
	}

	title := c.PostForm("title")
	content := c.PostForm("content")
	tags := c.PostForm("tags")
	action := c.PostForm("action")

	post := models.Post{
		UserID:    user.ID,
		Title:     title,
		Content:   content,
		Published: action == "publish",
	}

	if categoryID, err := strconv.Atoi(c.PostForm("category_id")); err == nil && categoryID > 0 {
		post.CategoryID = &categoryID
	}

	if err := a.posts.Create(&post); err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Error creating post",
		})
		return
	}

	if tags != "" {
		if err := a.tags.SetPostTags(int(post.ID), tags); err != nil {
			c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
				"error": "Error processing tags: " + err.Error(),
			})
			return
		}
	}

	c.Redirect(http.StatusFound, "/admin/posts")
}

func (a *AdminModule) editPost(c *gin.Context) {
	user := a.currentUser(c)
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "admin_error.html", gin.H{"error": "Invalid id"})
		return
	}

	post, err := a.posts.Get(postID)
	if err != nil {
		c.HTML(http.StatusNotFound, "admin_error.html", gin.H{
			"error": "Post not found",
		})
		return
	}

	if !policy.CanUpdatePost(user, post) {
		a.forbidden(c)
		return
	}

	categories, _ := a.categories.List()
	tags := a.tags.PostTagNames(postID)

	c.HTML(http.StatusOK, "admin_edit_post.html", gin.H{
		"user":       user,
		"post":       post,
		"categories": categories,
		"tags":       tags,
		"viewsCount": post.ViewsCount,
	})
}

func (a *AdminModule) updatePost(c *gin.Context) {
	user := a.currentUser(c)
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "admin_error.html", gin.H{"error": "Invalid id"})
		return
	}

	post, err := a.posts.Get(postID)
	if err != nil {
		c.HTML(http.StatusNotFound, "admin_error.html", gin.H{
			"error": "Post not found",
		})
		return
	}

	if !policy.CanUpdatePost(user, post) {
		a.forbidden(c)
		return
	}

	post.Title = c.PostForm("title")
	post.Content = c.PostForm("content")
	post.Slug = c.PostForm("slug")

	post.CategoryID = nil
	if categoryID, err := strconv.Atoi(c.PostForm("category_id")); err == nil && categoryID > 0 {
		post.CategoryID = &categoryID
	}

	switch c.PostForm("action") {
	case "publish":
		post.Published = true
	case "unpublish":
		post.Published = false
	case "save", "update":
	}

	if err := a.posts.Update(post); err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Error updating post",
		})
		return
	}

	if tags := c.PostForm("tags"); tags != "" {
		if err := a.tags.SetPostTags(postID, tags); err != nil {
			c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
				"error": "Error processing tags: " + err.Error(),
			})
			return
		}
	}

	c.Redirect(http.StatusFound, "/admin/posts")
}

func (a *AdminModule) deletePost(c *gin.Context) {
	user := a.currentUser(c)
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	post, err := a.posts.Get(postID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if !policy.CanDeletePost(user, post) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	if err := a.posts.Delete(postID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (a *AdminModule) listCategories(c *gin.Context) {
	user := a.currentUser(c)
	if !policy.CanViewCategories(user) {
		a.forbidden(c)
		return
	}

	categories, err := a.categories.List()
	if err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Error loading categories",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_categories.html", gin.H{
		"user":       user,
		"categories": categories,
	})
}

func (a *AdminModule) saveCategory(c *gin.Context) {
	user := a.currentUser(c)
	if !policy.CanCreateCategory(user) {
		a.forbidden(c)
		return
	}

	category := models.Category{
		Name: c.PostForm("name"),
		Slug: c.PostForm("slug"),
	}

	if err := a.categories.Create(&category); err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Error creating category",
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/categories")
}

func (a *AdminModule) updateCategory(c *gin.Context) {
	user := a.currentUser(c)
	if !policy.CanUpdateCategory(user) {
		a.forbidden(c)
		return
	}

	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "admin_error.html", gin.H{"error": "Invalid id"})
		return
	}

	category, err := a.categories.Get(categoryID)
	if err != nil {
		c.HTML(http.StatusNotFound, "admin_error.html", gin.H{
			"error": "Category not found",
		})
		return
	}

	category.Name = c.PostForm("name")
	category.Slug = c.PostForm("slug")

	if err := a.categories.Update(category); err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Error updating category",
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/categories")
}

func (a *AdminModule) deleteCategory(c *gin.Context) {
	user := a.currentUser(c)
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	postCount := a.categories.PostCount(categoryID)
	if !policy.CanDeleteCategory(user, postCount) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	if err := a.categories.Delete(categoryID); err != nil {
		if err == store.ErrCategoryNotEmpty {
			c.JSON(http.StatusConflict, gin.H{"error": "Category still has posts"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

func (a *AdminModule) listTags(c *gin.Context) {
	user := a.currentUser(c)

	tags, err := a.tags.List()
	if err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Error loading tags",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_tags.html", gin.H{
		"user": user,
		"tags": tags,
	})
}

func (a *AdminModule) saveTag(c *gin.Context) {
	user := a.currentUser(c)
	if !policy.CanCreateTag(user) {
		a.forbidden(c)
		return
	}

	tag := models.Tag{
		Name: c.PostForm("name"),
		Slug: c.PostForm("slug"),
	}

	if err := a.tags.Create(&tag); err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Error creating tag",
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/tags")
}

func (a *AdminModule) listPendingComments(c *gin.Context) {
	user := a.currentUser(c)

	comments, err := a.comments.Pending()
	if err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Error loading comments",
		})
		return
	}

	// non-admins only moderate comments on their own posts
	if !user.IsAdmin {
		filtered := comments[:0]
		for _, comment := range comments {
			post, err := a.posts.Get(comment.PostID)
			if err != nil {
				continue
			}
			if policy.CanApproveComment(user, post) {
				filtered = append(filtered, comment)
			}
		}
		comments = filtered
	}

	c.HTML(http.StatusOK, "admin_comments.html", gin.H{
		"user":     user,
		"comments": comments,
	})
}

func (a *AdminModule) approveComment(c *gin.Context) {
	user := a.currentUser(c)
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	comment, err := a.comments.Get(commentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	post, err := a.posts.Get(comment.PostID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if !policy.CanApproveComment(user, post) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	if err := a.comments.Approve(commentID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error approving comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment approved"})
}

func (a *AdminModule) deleteComment(c *gin.Context) {
	user := a.currentUser(c)
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	comment, err := a.comments.Get(commentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	post, _ := a.posts.Get(comment.PostID)

	if !policy.CanDeleteComment(user, comment, post) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	if err := a.comments.Delete(commentID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

func (a *AdminModule) listUsers(c *gin.Context) {
	user := a.currentUser(c)
	if !policy.CanManageUsers(user) {
		a.forbidden(c)
		return
	}

	var users []models.User
	if err := a.db.Order("id ASC").Find(&users).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Error loading users",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_users.html", gin.H{
		"user":  user,
		"users": users,
	})
}

func (a *AdminModule) toggleUserActive(c *gin.Context) {
	user := a.currentUser(c)
	if !policy.CanManageUsers(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var target models.User
	if err := a.db.First(&target, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	target.IsActive = !target.IsActive
	if err := a.db.Save(&target).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_active": target.IsActive})
}

func (a *AdminModule) toggleUserAdmin(c *gin.Context) {
	user := a.currentUser(c)
	if !policy.CanChangeUserRoles(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var target models.User
	if err := a.db.First(&target, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	target.IsAdmin = !target.IsAdmin
	if err := a.db.Save(&target).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_admin": target.IsAdmin})
}

func (a *AdminModule) listSubscribers(c *gin.Context) {
	user := a.currentUser(c)
	if !policy.CanViewSubscribers(user) {
		a.forbidden(c)
		return
	}

	subscribers, err := a.subscribers.List()
	if err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Error loading subscribers",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_subscribers.html", gin.H{
		"user":        user,
		"subscribers": subscribers,
	})
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
