package common

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pressroom/models"
)

// CurrentUser loads the logged-in user from the session, or nil when the
// request is anonymous.
func CurrentUser(db *gorm.DB, c *gin.Context) *models.User {
	session := sessions.Default(c)
	userID := session.Get("user_id")
	if userID == nil {
		return nil
	}

	id, ok := userID.(int)
	if !ok {
		return nil
	}

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil
	}
	return &user
}
