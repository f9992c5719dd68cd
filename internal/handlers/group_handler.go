package handlers

import (
	"errors"
	"log"
	"net/http"

	"chat-api/internal/database"
	"chat-api/internal/models"
	"chat-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateGroupRequest represents the payload for creating a group
type CreateGroupRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Avatar      string   `json:"avatar"`
	Members     []string `json:"members" binding:"required,min=1"`
}

// UpdateGroupRequest represents the payload for updating group details
type UpdateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Avatar      *string `json:"avatar"`
}

// AddMembersRequest represents the payload for adding members to a group
type AddMembersRequest struct {
	Members []string `json:"members" binding:"required,min=1"`
}

// GroupResponse is a group plus its current member IDs
type GroupResponse struct {
	models.Group
	Members []string `json:"members"`
}

func findActiveGroup(db *gorm.DB, groupID string) (models.Group, error) {
	var group models.Group
	err := db.Where("id = ? AND is_active = ?", groupID, true).First(&group).Error
	return group, err
}

func isGroupMember(db *gorm.DB, groupID, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

func groupMemberIDs(db *gorm.DB, groupID string) ([]string, error) {
	var ids []string
	err := db.Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &ids).Error
	return ids, err
}

/*
*
CreateGroup handles POST /api/groups
Creates a group with the authenticated user as admin. The admin is always a
member, whether or not the request lists them.
*/
func CreateGroup(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Group name and at least 1 member are required"})
		return
	}

	db := database.GetDB()

	// Verify all requested members exist
	var memberCount int64
	if err := db.Model(&models.User{}).Where("id IN ?", req.Members).Count(&memberCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify members"})
		return
	}
	uniqueRequested := make(map[string]struct{}, len(req.Members))
	for _, id := range req.Members {
		uniqueRequested[id] = struct{}{}
	}
	if int(memberCount) != len(uniqueRequested) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "One or more members not found"})
		return
	}

	group := models.Group{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Avatar:      req.Avatar,
		AdminID:     userID,
		IsActive:    true,
	}
	if err := db.Create(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	// Creator first, then the requested members (minus the creator)
	memberIDs := []string{userID}
	for _, id := range req.Members {
		if id != userID {
			if _, seen := uniqueRequested[id]; seen {
				memberIDs = append(memberIDs, id)
				delete(uniqueRequested, id)
			}
		}
	}
	for _, id := range memberIDs {
		if err := db.Create(&models.GroupMember{GroupID: group.ID, UserID: id}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add group members"})
			return
		}
	}

	c.JSON(http.StatusCreated, GroupResponse{Group: group, Members: memberIDs})
}

/*
*
GetGroups handles GET /api/groups
Returns every active group the authenticated user belongs to, most recently
active first.
*/
func GetGroups(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	db := database.GetDB()

	var groups []models.Group
	err := db.
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ? AND group_members.deleted_at IS NULL AND groups.is_active = ?", userID, true).
		Order("groups.updated_at desc").
		Find(&groups).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	resp := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		members, err := groupMemberIDs(db, g.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch group members"})
			return
		}
		resp = append(resp, GroupResponse{Group: g, Members: members})
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": resp,
		"count":  len(resp),
	})
}

/*
*
UpdateGroup handles PUT /api/groups/:id
Admin-only; updates name, description and/or avatar.
*/
func UpdateGroup(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("id")

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	db := database.GetDB()
	group, err := findActiveGroup(db, groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if group.AdminID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group admin can update the group"})
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Group name cannot be empty"})
			return
		}
		group.Name = *req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.Avatar != nil {
		group.Avatar = *req.Avatar
	}

	if err := db.Save(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}

	c.JSON(http.StatusOK, group)
}

/*
*
DeleteGroup handles DELETE /api/groups/:id
Admin-only; deactivates the group. Its messages stay in the store, but the
group no longer resolves for reads or delivery.
*/
func DeleteGroup(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("id")

	db := database.GetDB()
	group, err := findActiveGroup(db, groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if group.AdminID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group admin can delete the group"})
		return
	}

	group.IsActive = false
	if err := db.Save(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted"})
}

/*
*
LeaveGroup handles DELETE /api/groups/:id/leave
Removes the authenticated user from the group. The admin cannot leave their
own group; they delete it instead.
*/
func LeaveGroup(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("id")

	db := database.GetDB()
	group, err := findActiveGroup(db, groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if group.AdminID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Admin cannot leave the group; delete it instead"})
		return
	}

	member, err := isGroupMember(db, groupID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if !member {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not a member of this group"})
		return
	}

	err = db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left group"})
}

/*
*
AddGroupMembers handles POST /api/groups/:id/members
Admin-only; adds users to the group, skipping ones already in it.
*/
func AddGroupMembers(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("id")

	var req AddMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least 1 member is required"})
		return
	}

	db := database.GetDB()
	group, err := findActiveGroup(db, groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if group.AdminID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group admin can add members"})
		return
	}

	var userCount int64
	if err := db.Model(&models.User{}).Where("id IN ?", req.Members).Count(&userCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify members"})
		return
	}
	unique := make(map[string]struct{}, len(req.Members))
	for _, id := range req.Members {
		unique[id] = struct{}{}
	}
	if int(userCount) != len(unique) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "One or more members not found"})
		return
	}

	added := make([]string, 0, len(unique))
	for id := range unique {
		already, err := isGroupMember(db, groupID, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
			return
		}
		if already {
			continue
		}
		if err := db.Create(&models.GroupMember{GroupID: groupID, UserID: id}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add members"})
			return
		}
		added = append(added, id)
	}

	members, err := groupMemberIDs(db, groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch group members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"added":   added,
		"members": members,
	})
}

/*
*
RemoveGroupMember handles DELETE /api/groups/:id/members/:memberId
Admin-only; the admin themselves cannot be removed.
*/
func RemoveGroupMember(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("id")
	memberID := c.Param("memberId")

	db := database.GetDB()
	group, err := findActiveGroup(db, groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if group.AdminID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group admin can remove members"})
		return
	}
	if memberID == group.AdminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot remove the group admin"})
		return
	}

	member, err := isGroupMember(db, groupID, memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if !member {
		c.JSON(http.StatusNotFound, gin.H{"error": "User is not a member of this group"})
		return
	}

	err = db.Where("group_id = ? AND user_id = ?", groupID, memberID).
		Delete(&models.GroupMember{}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

/*
*
GetGroupMessages handles GET /api/groups/:id/messages
Members only; returns the group's messages oldest first, with sender
profiles attached.
*/
func GetGroupMessages(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}
	groupID := c.Param("id")

	db := database.GetDB()
	if _, err := findActiveGroup(db, groupID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	member, err := isGroupMember(db, groupID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var messages []models.GroupMessage
	err = db.Where("group_id = ?", groupID).
		Order("created_at asc").
		Find(&messages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	for i := range messages {
		messages[i].Sender = senderProfile(db, messages[i].SenderID)
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}

/*
*
SendGroupMessage handles POST /api/groups/:id/messages
Members only; persists the message, then fans it out to every member with a
live connection. Delivery is best-effort: the persisted message is the
system of record, and delivery failures never fail the request.
*/
func SendGroupMessage(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}
	groupID := c.Param("id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Text == "" && req.Image == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	db := database.GetDB()
	group, err := findActiveGroup(db, groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	member, err := isGroupMember(db, groupID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	message := models.GroupMessage{
		ID:       uuid.NewString(),
		SenderID: userID,
		GroupID:  groupID,
		Text:     req.Text,
		Image:    req.Image,
	}
	if err := db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	// Touch the group so "most recently active" ordering holds
	if err := db.Model(&group).Update("updated_at", message.CreatedAt).Error; err != nil {
		log.Println("failed to touch group activity:", err)
	}

	message.Sender = senderProfile(db, userID)

	// Fan out to members with live connections; offline members will read
	// the message from the store. A vanished group only skips the push.
	_, err = deliveryRouter().DeliverToGroup(c.Request.Context(), groupID, userID, realtime.EventNewGroupMessage, message)
	if err != nil && !errors.Is(err, realtime.ErrGroupNotFound) {
		log.Println("group fan-out failed:", err)
	}

	c.JSON(http.StatusCreated, message)
}
