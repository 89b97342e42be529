package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pressroom/models"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.AutoMigrate(&models.User{}, &models.Post{}, &models.View{})
	return db
}

func createTestPost(db *gorm.DB) *models.Post {
	post := &models.Post{
		UserID:    1,
		Title:     "Test Post",
		Slug:      "test-post",
		Published: true,
	}
	db.Create(post)
	return post
}

func TestRecord_AppendsAndIncrements(t *testing.T) {
	db := setupTestDB()
	recorder := NewRecorder(db)
	post := createTestPost(db)

	userID := 7
	ip := "203.0.113.9"
	ua := "Mozilla/5.0"

	err := recorder.Record(int(post.ID), &userID, &ip, &ua)
	assert.NoError(t, err)

	var view models.View
	assert.NoError(t, db.Where("post_id = ?", post.ID).First(&view).Error)
	assert.Equal(t, 7, *view.UserID)
	assert.Equal(t, "203.0.113.9", *view.IPAddress)
	assert.Equal(t, "Mozilla/5.0", *view.UserAgent)
	assert.False(t, view.CreatedAt.IsZero())

	var updated models.Post
	db.First(&updated, post.ID)
	assert.Equal(t, int64(1), updated.ViewsCount)
}

func TestRecord_AnonymousAllFieldsNil(t *testing.T) {
	db := setupTestDB()
	recorder := NewRecorder(db)
	post := createTestPost(db)

	err := recorder.Record(int(post.ID), nil, nil, nil)
	assert.NoError(t, err)

	var view models.View
	assert.NoError(t, db.Where("post_id = ?", post.ID).First(&view).Error)
	assert.Nil(t, view.UserID)
	assert.Nil(t, view.IPAddress)
	assert.Nil(t, view.UserAgent)
}

func TestRecord_NoDeduplication(t *testing.T) {
	db := setupTestDB()
	recorder := NewRecorder(db)
	post := createTestPost(db)

	ip := "203.0.113.9"
	for i := 0; i < 3; i++ {
		assert.NoError(t, recorder.Record(int(post.ID), nil, &ip, nil))
	}

	var count int64
	db.Model(&models.View{}).Where("post_id = ?", post.ID).Count(&count)
	assert.Equal(t, int64(3), count)

	var updated models.Post
	db.First(&updated, post.ID)
	assert.Equal(t, int64(3), updated.ViewsCount)
}

func TestTopPosts(t *testing.T) {
	db := setupTestDB()
	recorder := NewRecorder(db)

	first := createTestPost(db)
	second := &models.Post{UserID: 1, Title: "Other", Slug: "other", Published: true}
	db.Create(second)

	for i := 0; i < 5; i++ {
		recorder.Record(int(first.ID), nil, nil, nil)
	}
	recorder.Record(int(second.ID), nil, nil, nil)

	top := recorder.TopPosts(30, 10)

	assert.Len(t, top, 2)
	assert.Equal(t, int(first.ID), top[0].PostID)
	assert.Equal(t, int64(5), top[0].Count)
}

func TestViewsByDay_ZeroFilled(t *testing.T) {
	db := setupTestDB()
	recorder := NewRecorder(db)
	post := createTestPost(db)

	recorder.Record(int(post.ID), nil, nil, nil)

	days := recorder.ViewsByDay(7)

	assert.Len(t, days, 7)
	assert.Equal(t, int64(1), days[6].Count) // today is the last bucket
	for i := 0; i < 6; i++ {
		assert.Equal(t, int64(0), days[i].Count)
	}
}
