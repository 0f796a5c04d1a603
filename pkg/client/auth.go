package client

import (
	"crypto/md5"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// MaxUsernameLength is the longest name LoginStart accepts.
const MaxUsernameLength = 16

var validUsername = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// OfflineUUID is the UUID an offline-mode server assigns to username: a
// version 3 UUID of "OfflinePlayer:<username>".
func OfflineUUID(username string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + username))
	sum[6] = sum[6]&0x0f | 0x30
	sum[8] = sum[8]&0x3f | 0x80
	return uuid.UUID(sum)
}

func (c *Client) checkUsername() error {
	if c.Username == "" {
		c.Username = DefaultUsername
		c.Logger.Printf("Warning: no username provided for offline mode, defaulting to '%s'", DefaultUsername)
	}
	if len(c.Username) > MaxUsernameLength {
		return fmt.Errorf("username %q is longer than %d characters", c.Username, MaxUsernameLength)
	}
	if !validUsername.MatchString(c.Username) {
		return fmt.Errorf("username %q contains invalid characters", c.Username)
	}
	return nil
}
