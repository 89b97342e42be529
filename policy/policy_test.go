package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pressroom/models"
)

var (
	admin      = &models.User{ID: 1, IsAdmin: true, IsActive: true}
	superAdmin = &models.User{ID: 2, IsAdmin: true, IsSuperAdmin: true, IsActive: true}
	author     = &models.User{ID: 3, IsActive: true}
	reader     = &models.User{ID: 4, IsActive: true}
	inactive   = &models.User{ID: 5, IsActive: false}
)

func TestCategoryDecisions(t *testing.T) {
	assert.True(t, CanViewCategories(reader))
	assert.False(t, CanViewCategories(nil))

	assert.True(t, CanCreateCategory(admin))
	assert.False(t, CanCreateCategory(author))

	assert.True(t, CanUpdateCategory(admin))
	assert.False(t, CanUpdateCategory(reader))

	assert.True(t, CanRestoreCategory(admin))
	assert.False(t, CanRestoreCategory(author))
}

func TestDeleteCategory_EmptyOnly(t *testing.T) {
	assert.True(t, CanDeleteCategory(admin, 0))
	assert.False(t, CanDeleteCategory(admin, 1))
	assert.False(t, CanDeleteCategory(admin, 42))
	assert.False(t, CanDeleteCategory(author, 0))
	assert.False(t, CanDeleteCategory(nil, 0))
}

func TestForceDeleteCategory_SuperAdminOnly(t *testing.T) {
	assert.True(t, CanForceDeleteCategory(superAdmin))
	assert.False(t, CanForceDeleteCategory(admin))
	assert.False(t, CanForceDeleteCategory(author))
	assert.False(t, CanForceDeleteCategory(&models.User{ID: 6, IsSuperAdmin: true}))
}

func TestPostViewFamily_AlwaysDeny(t *testing.T) {
	post := &models.Post{ID: 1, UserID: author.ID}

	assert.False(t, CanListPosts(admin))
	assert.False(t, CanViewPost(admin, post))
	assert.False(t, CanRestorePost(superAdmin, post))
	assert.False(t, CanForceDeletePost(superAdmin, post))
}

func TestCreatePost_ActiveOnly(t *testing.T) {
	assert.True(t, CanCreatePost(author))
	assert.True(t, CanCreatePost(admin))
	assert.False(t, CanCreatePost(inactive))
	assert.False(t, CanCreatePost(nil))
}

func TestUpdateDeletePost_OwnerOrAdmin(t *testing.T) {
	post := &models.Post{ID: 1, UserID: author.ID}

	assert.True(t, CanUpdatePost(author, post))
	assert.True(t, CanUpdatePost(admin, post))
	assert.False(t, CanUpdatePost(reader, post))
	assert.False(t, CanUpdatePost(nil, post))

	assert.True(t, CanDeletePost(author, post))
	assert.True(t, CanDeletePost(admin, post))
	assert.False(t, CanDeletePost(reader, post))
}

func TestCommentDecisions(t *testing.T) {
	post := &models.Post{ID: 1, UserID: author.ID}
	comment := &models.Comment{ID: 1, PostID: 1, UserID: reader.ID}

	assert.True(t, CanCreateComment(reader))
	assert.False(t, CanCreateComment(nil))

	assert.True(t, CanUpdateComment(reader, comment))
	assert.True(t, CanUpdateComment(admin, comment))
	assert.False(t, CanUpdateComment(author, comment))

	// the post author may delete comments under their post
	assert.True(t, CanDeleteComment(reader, comment, post))
	assert.True(t, CanDeleteComment(admin, comment, post))
	assert.True(t, CanDeleteComment(author, comment, post))
	otherUser := &models.User{ID: 99, IsActive: true}
	assert.False(t, CanDeleteComment(otherUser, comment, post))
}

func TestApproveComment(t *testing.T) {
	post := &models.Post{ID: 1, UserID: author.ID}

	assert.True(t, CanApproveComment(admin, post))
	assert.True(t, CanApproveComment(author, post))
	assert.False(t, CanApproveComment(reader, post))
	assert.False(t, CanApproveComment(nil, post))
}

func TestTagDecisions_AdminOnly(t *testing.T) {
	assert.True(t, CanCreateTag(admin))
	assert.False(t, CanCreateTag(author))
	assert.False(t, CanCreateTag(nil))

	assert.True(t, CanUpdateTag(admin))
	assert.False(t, CanUpdateTag(reader))
}

func TestUserAdministration(t *testing.T) {
	assert.True(t, CanManageUsers(admin))
	assert.True(t, CanManageUsers(superAdmin))
	assert.False(t, CanManageUsers(author))
	assert.False(t, CanManageUsers(nil))

	// only super admins hand out or revoke the admin flag
	assert.True(t, CanChangeUserRoles(superAdmin))
	assert.False(t, CanChangeUserRoles(admin))
	assert.False(t, CanChangeUserRoles(&models.User{ID: 6, IsSuperAdmin: true}))
	assert.False(t, CanChangeUserRoles(nil))
}

func TestViewSubscribers_AdminOnly(t *testing.T) {
	assert.True(t, CanViewSubscribers(admin))
	assert.False(t, CanViewSubscribers(author))
	assert.False(t, CanViewSubscribers(nil))
}

func TestViewStats_AdminOnly(t *testing.T) {
	assert.True(t, CanViewStats(admin))
	assert.False(t, CanViewStats(author))
	assert.False(t, CanViewStats(nil))
}
