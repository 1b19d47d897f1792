package models

import "time"

const (
	RoleUser   = "user"
	RoleArtist = "artist"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	Username     string    `gorm:"not null"                   json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"       json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         string    `gorm:"not null;default:user"      json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Item struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Description string    `gorm:"not null"                 json:"description"`
	Price       float64   `gorm:"type:numeric(12,2);not null" json:"price"`
	ArtistID    uint      `gorm:"index;not null"           json:"artist_id"`
	CreatedAt   time.Time `gorm:"index"                    json:"created_at"`
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleArtist
}
