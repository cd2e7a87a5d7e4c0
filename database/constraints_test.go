package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalCheckSQL(t *testing.T) {
	assert.Equal(t,
		`ALTER TABLE friendships ADD CONSTRAINT ck_friendships_canonical CHECK (user1_id COLLATE "C" < user2_id COLLATE "C")`,
		canonicalCheckSQL("postgres"))
	assert.Equal(t,
		"ALTER TABLE friendships ADD CONSTRAINT ck_friendships_canonical CHECK (user1_id < user2_id)",
		canonicalCheckSQL("mysql"))
}

func TestBinaryCollationSQL(t *testing.T) {
	assert.Equal(t,
		"ALTER TABLE `users` MODIFY `id` varchar(191) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
		binaryCollationSQL("users", "id", 191, false))
	assert.Equal(t,
		"ALTER TABLE `friend_requests` MODIFY `pending_key` varchar(400) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NULL",
		binaryCollationSQL("friend_requests", "pending_key", 400, true))
}

func TestIDColumnsCoverEveryEdgeTable(t *testing.T) {
	tables := map[string]bool{}
	for _, c := range idColumns {
		tables[c.table] = true
	}
	for _, table := range []string{"users", "posts", "likes", "follows", "friend_requests", "friendships"} {
		assert.True(t, tables[table], table)
	}
}
