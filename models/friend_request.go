package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

type FriendRequestStatus string

const (
	FriendRequestStatusPending  FriendRequestStatus = "pending"
	FriendRequestStatusAccepted FriendRequestStatus = "accepted"
	FriendRequestStatusDeclined FriendRequestStatus = "declined"
)

type FriendRequest struct {
	ID         uint                `json:"id" gorm:"primaryKey"`
	SenderID   string              `json:"sender_id" gorm:"not null;size:191;index"`
	ReceiverID string              `json:"receiver_id" gorm:"not null;size:191;index"`
	Status     FriendRequestStatus `json:"status" gorm:"not null;default:'pending';size:20;index"`
	// PendingKey identifies the ordered pair while the request is pending and
	// is NULL afterwards; the unique index allows any number of NULLs.
	PendingKey *string   `json:"-" gorm:"size:400;uniqueIndex:uk_friend_requests_pending"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Sender   *User `json:"-" gorm:"foreignKey:SenderID"`
	Receiver *User `json:"-" gorm:"foreignKey:ReceiverID"`
}

// PendingKeyFor encodes the pair as "<len(sender)>:<sender><receiver>". The
// length prefix keeps ids that contain ':' from colliding.
func PendingKeyFor(senderID, receiverID string) *string {
	k := strconv.Itoa(len(senderID)) + ":" + senderID + receiverID
	return &k
}

// Friendship is an undirected edge stored once, with User1ID < User2ID.
type Friendship struct {
	User1ID   string    `json:"user1_id" gorm:"primaryKey;size:191"`
	User2ID   string    `json:"user2_id" gorm:"primaryKey;size:191;index:idx_friendships_user2"`
	CreatedAt time.Time `json:"created_at"`

	User1 *User `json:"-" gorm:"foreignKey:User1ID"`
	User2 *User `json:"-" gorm:"foreignKey:User2ID"`
}

// CanonicalPair orders two user ids by string comparison.
func CanonicalPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

func NewFriendship(a, b string) *Friendship {
	u1, u2 := CanonicalPair(a, b)
	return &Friendship{User1ID: u1, User2ID: u2}
}

// BeforeCreate keeps the pair canonical whatever the caller passed.
func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	f.User1ID, f.User2ID = CanonicalPair(f.User1ID, f.User2ID)
	return nil
}

// Other returns the id on the far side of the edge from userID.
func (f *Friendship) Other(userID string) string {
	if f.User1ID == userID {
		return f.User2ID
	}
	return f.User1ID
}

type FriendshipState string

const (
	FriendshipStateSelf            FriendshipState = "self"
	FriendshipStateFriends         FriendshipState = "friends"
	FriendshipStateRequestSent     FriendshipState = "request_sent"
	FriendshipStateRequestReceived FriendshipState = "request_received"
	FriendshipStateNone            FriendshipState = "none"
)

type FriendshipStatusResponse struct {
	Status    FriendshipState `json:"status"`
	RequestID *uint           `json:"request_id,omitempty"`
}

// FriendRequestDTO carries the user on the other side of the request.
type FriendRequestDTO struct {
	ID         uint                `json:"id"`
	SenderID   string              `json:"sender_id"`
	ReceiverID string              `json:"receiver_id"`
	Status     FriendRequestStatus `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	Sender     *UserSummary        `json:"sender,omitempty"`
	Receiver   *UserSummary        `json:"receiver,omitempty"`
}

type FriendDTO struct {
	UserSummary
	FriendshipCreatedAt time.Time `json:"friendship_created_at"`
}
