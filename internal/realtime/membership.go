package realtime

import (
	"chat-api/internal/models"
	"context"
	"errors"

	"gorm.io/gorm"
)

// GroupMembers is a MembershipSource backed by the groups tables. Membership
// is read fresh on every call; there is deliberately no cache here, so the
// fan-out always matches the persisted record at the instant of delivery.
type GroupMembers struct {
	db *gorm.DB
}

// NewGroupMembers returns a membership source reading from db.
func NewGroupMembers(db *gorm.DB) *GroupMembers {
	return &GroupMembers{db: db}
}

// MembersOf implements MembershipSource. A deleted or inactive group yields
// ErrGroupNotFound.
func (g *GroupMembers) MembersOf(ctx context.Context, groupID string) ([]string, error) {
	var group models.Group
	err := g.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", groupID, true).
		First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	var memberIDs []string
	err = g.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &memberIDs).Error
	if err != nil {
		return nil, err
	}
	return memberIDs, nil
}
