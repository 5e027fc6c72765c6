package model

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusShipped  OrderStatus = "SHIPPED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

type Order struct {
	ID                 int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Email              string      `gorm:"type:varchar(255);not null;index" json:"email"`
	Status             OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Subtotal           int64       `gorm:"not null" json:"subtotal"`
	DeliveryMethodID   int64       `gorm:"not null" json:"delivery_method_id"`
	DeliveryNameSnap   string      `gorm:"type:varchar(255);not null" json:"delivery_name"`
	DeliveryPriceSnap  int64       `gorm:"not null" json:"delivery_price"`
	TotalPrice         int64       `gorm:"not null" json:"total_price"`
	IdempotencyKey     string      `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt          time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
