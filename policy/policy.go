// Package policy holds the authorization decisions for every resource type.
// All functions are pure: they answer allow/deny from the actor and a resource
// snapshot, never touch the database and are safe to call speculatively
// (e.g. to decide whether to show a button).
package policy

import "pressroom/models"

// Category decisions. Deleting is guarded by the live post count, which the
// caller must supply; an empty category is deletable by any admin, a category
// still holding posts is not deletable by anyone.

func CanViewCategories(actor *models.User) bool {
	return actor != nil
}

func CanCreateCategory(actor *models.User) bool {
	return actor != nil && actor.IsAdmin
}

func CanUpdateCategory(actor *models.User) bool {
	return actor != nil && actor.IsAdmin
}

func CanDeleteCategory(actor *models.User, postCount int64) bool {
	return actor != nil && actor.IsAdmin && postCount == 0
}

func CanRestoreCategory(actor *models.User) bool {
	return actor != nil && actor.IsAdmin
}

// CanForceDeleteCategory permanently removes a category. Reserved for
// super admins on top of the regular admin flag.
func CanForceDeleteCategory(actor *models.User) bool {
	return actor != nil && actor.IsAdmin && actor.IsSuperAdmin
}

// Post decisions. Visibility of posts is governed by the Published flag on the
// read path, not here, so the view family always denies.

func CanListPosts(actor *models.User) bool { return false }

func CanViewPost(actor *models.User, post *models.Post) bool { return false }

func CanRestorePost(actor *models.User, post *models.Post) bool { return false }

func CanForceDeletePost(actor *models.User, post *models.Post) bool { return false }

func CanCreatePost(actor *models.User) bool {
	return actor != nil && actor.IsActive
}

func CanUpdatePost(actor *models.User, post *models.Post) bool {
	if actor == nil || post == nil {
		return false
	}
	return actor.ID == post.UserID || actor.IsAdmin
}

func CanDeletePost(actor *models.User, post *models.Post) bool {
	return CanUpdatePost(actor, post)
}

// Comment decisions. The post author moderates comments on their own posts,
// so delete and approve also allow the owner of the parent post.

func CanCreateComment(actor *models.User) bool {
	return actor != nil
}

func CanUpdateComment(actor *models.User, comment *models.Comment) bool {
	if actor == nil || comment == nil {
		return false
	}
	return actor.ID == comment.UserID || actor.IsAdmin
}

func CanDeleteComment(actor *models.User, comment *models.Comment, post *models.Post) bool {
	if actor == nil || comment == nil {
		return false
	}
	if actor.ID == comment.UserID || actor.IsAdmin {
		return true
	}
	return post != nil && actor.ID == post.UserID
}

func CanApproveComment(actor *models.User, post *models.Post) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin {
		return true
	}
	return post != nil && actor.ID == post.UserID
}

// Tag decisions mirror categories: the tag vocabulary is shared, so only
// admins shape it directly. Authors still attach tags through their own posts.

func CanCreateTag(actor *models.User) bool {
	return actor != nil && actor.IsAdmin
}

func CanUpdateTag(actor *models.User) bool {
	return actor != nil && actor.IsAdmin
}

// User administration.

func CanManageUsers(actor *models.User) bool {
	return actor != nil && actor.IsAdmin
}

// CanChangeUserRoles covers granting and revoking the admin flag.
func CanChangeUserRoles(actor *models.User) bool {
	return actor != nil && actor.IsAdmin && actor.IsSuperAdmin
}

func CanViewSubscribers(actor *models.User) bool {
	return actor != nil && actor.IsAdmin
}

// CanViewStats gates the view statistics pages.
func CanViewStats(actor *models.User) bool {
	return actor != nil && actor.IsAdmin
}
