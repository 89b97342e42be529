package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pressroom/models"
	"pressroom/policy"
)

// Chart structs carry pre-computed percentages so the template stays dumb.
type DayViewChart struct {
	Date       string
	Count      int64
	Percentage float64
}

type PostViewChart struct {
	PostID     int
	PostTitle  string
	Count      int64
	Percentage float64
}

func (a *AdminModule) stats(c *gin.Context) {
	user := a.currentUser(c)
	if !policy.CanViewStats(user) {
		a.forbidden(c)
		return
	}

	viewsByDay := a.recorder.ViewsByDay(15)
	topPosts := a.recorder.TopPosts(30, 10)

	for i := range topPosts {
		var post models.Post
		if err := a.db.First(&post, topPosts[i].PostID).Error; err == nil {
			topPosts[i].PostTitle = post.Title
		} else {
			topPosts[i].PostTitle = "Post not found"
		}
	}

	maxViewsPerDay := int64(1)
	for _, day := range viewsByDay {
		if day.Count > maxViewsPerDay {
			maxViewsPerDay = day.Count
		}
	}

	maxViewsPerPost := int64(1)
	for _, post := range topPosts {
		if post.Count > maxViewsPerPost {
			maxViewsPerPost = post.Count
		}
	}

	dayCharts := make([]DayViewChart, len(viewsByDay))
	for i, day := range viewsByDay {
		dayCharts[i] = DayViewChart{
			Date:       day.Date,
			Count:      day.Count,
			Percentage: (float64(day.Count) / float64(maxViewsPerDay)) * 100,
		}
	}

	postCharts := make([]PostViewChart, len(topPosts))
	for i, post := range topPosts {
		postCharts[i] = PostViewChart{
			PostID:     post.PostID,
			PostTitle:  post.PostTitle,
			Count:      post.Count,
			Percentage: (float64(post.Count) / float64(maxViewsPerPost)) * 100,
		}
	}

	c.HTML(http.StatusOK, "admin_stats.html", gin.H{
		"user":       user,
		"viewsByDay": dayCharts,
		"topPosts":   postCharts,
	})
}
