package views

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pressroom/models"
)

// Recorder appends view records and keeps the denormalized views_count on the
// post in step. Every call creates a new row; repeat views from the same
// client are not deduplicated.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Record inserts an immutable view row and increments the post counter.
// userID, ip and userAgent are all optional.
func (r *Recorder) Record(postID int, userID *int, ip, userAgent *string) error {
	view := models.View{
		PostID:    postID,
		UserID:    userID,
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}

	if err := r.db.Create(&view).Error; err != nil {
		return err
	}

	if err := r.db.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error; err != nil {
		return err
	}

	log.Printf("views: recorded view for post %d", postID)
	return nil
}

// RecordFromRequest captures client details from the request and records the
// view asynchronously so the page response is not delayed.
func (r *Recorder) RecordFromRequest(c *gin.Context, postID int, userID *int) {
	ip := clientIP(c)
	ua := c.Request.UserAgent()

	var ipPtr, uaPtr *string
	if ip != "" {
		ipPtr = &ip
	}
	if ua != "" {
		uaPtr = &ua
	}

	go func() {
		if err := r.Record(postID, userID, ipPtr, uaPtr); err != nil {
			log.Printf("views: error recording view for post %d: %v", postID, err)
		}
	}()
}

// clientIP returns the real client IP, looking through common proxy headers.
func clientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}

	if ip := c.GetHeader("CF-Connecting-IP"); ip != "" {
		return ip
	}

	return c.ClientIP()
}

// DayViews is the number of views on one day.
type DayViews struct {
	Date  string
	Count int64
}

// PostViews is the view count of one post.
type PostViews struct {
	PostID    int
	PostTitle string
	Count     int64
}

// ViewsByDay returns views per day for the last N days, zero-filled.
func (r *Recorder) ViewsByDay(days int) []DayViews {
	startDate := time.Now().AddDate(0, 0, -days)

	var results []struct {
		Date  string
		Count int64
	}

	r.db.Model(&models.View{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at >= ?", startDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&results)

	dayViews := make([]DayViews, days)
	for i := 0; i < days; i++ {
		date := time.Now().AddDate(0, 0, -(days - 1 - i))
		dayViews[i] = DayViews{
			Date:  date.Format("2006-01-02"),
			Count: 0,
		}
	}

	for _, result := range results {
		for i := range dayViews {
			if dayViews[i].Date == result.Date {
				dayViews[i].Count = result.Count
				break
			}
		}
	}

	return dayViews
}

// TopPosts returns the N most viewed posts of the last X days.
func (r *Recorder) TopPosts(days int, limit int) []PostViews {
	startDate := time.Now().AddDate(0, 0, -days)

	var results []PostViews
	r.db.Model(&models.View{}).
		Select("post_id as post_id, COUNT(*) as count").
		Where("created_at >= ?", startDate).
		Group("post_id").
		Order("count DESC").
		Limit(limit).
		Scan(&results)

	return results
}
