package model

import "time"

// セッション状態の永続化行。
// フロントのlocalStorage相当をサーバ側で持つ。
type SessionState struct {
	SessionID string          `gorm:"primaryKey;type:varchar(64)" json:"session_id"`
	Cart      SessionCart     `gorm:"type:jsonb;serializer:json" json:"cart"`
	Wishlist  SessionWishlist `gorm:"type:jsonb;serializer:json" json:"wishlist"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
