package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OAuthClient is an API client allowed to use the client credentials grant.
// Tokens issued to it act on behalf of the owning user.
type OAuthClient struct {
	ID        string         `json:"client_id" gorm:"primaryKey"`
	Secret    string         `json:"-" gorm:"not null"`
	Name      string         `json:"name"`
	Domain    string         `json:"domain"`
	UserID    string         `json:"user_id" gorm:"index;not null"` // owner, see User.ID
	Scopes    string         `json:"scopes"`                        // space separated
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}

// oauth2.ClientInfo

func (c *OAuthClient) GetID() string     { return c.ID }
func (c *OAuthClient) GetSecret() string { return c.Secret }
func (c *OAuthClient) GetDomain() string { return c.Domain }
func (c *OAuthClient) IsPublic() bool    { return false }
func (c *OAuthClient) GetUserID() string { return c.UserID }

// VerifyPassword checks a plain secret against the stored bcrypt hash
func (c *OAuthClient) VerifyPassword(secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.Secret), []byte(secret)) == nil
}
