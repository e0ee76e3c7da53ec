package models

import (
	"time"

	"github.com/uptrace/bun"
)

// AuthToken is an opaque API token issued at login. The key is what clients
// send back in the Authorization header.
type AuthToken struct {
	bun.BaseModel `bun:"table:auth_tokens,alias:at"`

	Key    string `bun:"key,pk" json:"key"`
	UserID int64  `bun:"user_id,notnull" json:"user_id"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"-"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
