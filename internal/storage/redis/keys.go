package redis

import (
	"fmt"

	"github.com/fanlink/fanlink/internal/model"
)

// Key prefix for all chat-related data
const keyPrefix = "fanlink"

// Key generation functions for each entity type

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// credentialsKey returns the Redis key for a user's Credentials
func credentialsKey(userID model.UserID) string {
	return fmt.Sprintf("%s:credentials:%s", keyPrefix, userID)
}

// emailIndexKey returns the Redis key for the email -> user_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// messageKey returns the Redis key for a Message
func messageKey(id model.MessageID) string {
	return fmt.Sprintf("%s:message:%s", keyPrefix, id)
}

// mailboxKey returns the Redis key for the ZSET of undelivered message ids
// for a receiver, scored by creation time
func mailboxKey(receiverID model.UserID) string {
	return fmt.Sprintf("%s:idx:mailbox:%s", keyPrefix, receiverID)
}

// conversationKey returns the Redis key for the ZSET of message ids between
// two users, scored by creation time. The pair is ordered so both directions
// share one key.
func conversationKey(a, b model.UserID) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%s:idx:conversation:%s:%s", keyPrefix, a, b)
}
