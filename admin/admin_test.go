package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
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

func setupTestModule(db *gorm.DB) *AdminModule {
	return NewAdminModule(
		db,
		store.NewPostStore(db, nil),
		store.NewCategoryStore(db),
		store.NewTagStore(db),
		store.NewCommentStore(db),
		views.NewRecorder(db),
		newsletter.NewSubscribers(db),
	)
}

func setupTestRouter(adminModule *AdminModule) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	sessionStore := cookie.NewStore([]byte("secret"))
	router.Use(sessions.Sessions("test-session", sessionStore))
	adminModule.RegisterRoutes(router)
	return router
}

func createTestUser(db *gorm.DB) *models.User {
	user := &models.User{
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		IsActive:     true,
	}
	db.Create(user)
	return user
}

func TestRequireAuth_Unauthorized(t *testing.T) {
	db := setupTestDB()
	adminModule := setupTestModule(db)
	router := setupTestRouter(adminModule)

	req, _ := http.NewRequest("GET", "/admin/posts", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login")
}

func TestAdminRoot_NotLoggedIn(t *testing.T) {
	db := setupTestDB()
	adminModule := setupTestModule(db)
	router := setupTestRouter(adminModule)

	req, _ := http.NewRequest("GET", "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login")
}

func TestUserCreation(t *testing.T) {
	db := setupTestDB()
	user := createTestUser(db)

	assert.NotNil(t, user)
	assert.NotEmpty(t, user.Email)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)
}

func TestRegisterValidation_DuplicateEmail(t *testing.T) {
	db := setupTestDB()

	user := createTestUser(db)

	var existingUser models.User
	err := db.Where("email = ?", user.Email).First(&existingUser).Error

	assert.NoError(t, err)
	assert.Equal(t, user.Email, existingUser.Email)
}

func TestHashPassword(t *testing.T) {
	password := "testpassword123"
	hash, err := hashPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
}

func TestCheckPasswordHash(t *testing.T) {
	password := "testpassword123"
	hash, _ := hashPassword(password)

	assert.True(t, checkPasswordHash(password, hash))
	assert.False(t, checkPasswordHash("wrongpassword", hash))
}

func TestDeletePost_Unauthenticated(t *testing.T) {
	db := setupTestDB()
	adminModule := setupTestModule(db)
	router := setupTestRouter(adminModule)

	author := createTestUser(db)
	post := &models.Post{UserID: author.ID, Title: "Mine", Slug: "mine"}
	db.Create(post)

	req, _ := http.NewRequest("DELETE", "/admin/post/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)

	var saved models.Post
	assert.NoError(t, db.First(&saved, post.ID).Error)
}

func TestToggleUserActive(t *testing.T) {
	db := setupTestDB()

	user := createTestUser(db)
	assert.True(t, user.IsActive)

	user.IsActive = !user.IsActive
	db.Save(user)

	var updated models.User
	db.First(&updated, user.ID)
	assert.False(t, updated.IsActive)
}
