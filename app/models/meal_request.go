package models

// Meal request states. Delivered is terminal.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
)

// MealRequest is a member asking for a menu item to be served. It keeps
// the client's snapshot of the meal; Email is the requesting member.
type MealRequest struct {
	ID          ID     `bson:"_id,omitempty" json:"_id" gorm:"primaryKey;size:24"`
	MenuID      ID     `bson:"id"            json:"id"  gorm:"column:menu_id;size:24" validate:"nullable,objectid"`
	MealDetails `bson:",inline" gorm:"embedded"`
	Status      string `bson:"status"        json:"status" gorm:"size:20;not null;default:pending"`
}
