package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Email    string `bun:"email,notnull,unique" json:"email"`
	Name     string `bun:"name,default:''" json:"name"`
	Password string `bun:"password,notnull" json:"-"`
	IsStaff  bool   `bun:"is_staff,notnull,default:false" json:"is_staff"`
	IsActive bool   `bun:"is_active,notnull,default:true" json:"is_active"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// NormalizeEmail lower-cases the domain portion of an email address. The
// local part is case-sensitive per RFC 5321 and is preserved as provided.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
