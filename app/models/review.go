package models

// Review is a member's comment on a menu item. MenuID is serialised as
// "id", which is what the web client sends.
type Review struct {
	ID       ID     `bson:"_id,omitempty" json:"_id"      gorm:"primaryKey;size:24"`
	MenuID   ID     `bson:"id"            json:"id"       gorm:"column:menu_id;size:24;index" validate:"required,objectid"`
	Email    string `bson:"email"         json:"email"    gorm:"size:255;index"`
	Name     string `bson:"name"          json:"name"     gorm:"size:255"`
	FoodName string `bson:"foodname"      json:"foodname" gorm:"column:food_name;size:255"`
	Review   string `bson:"review"        json:"review"   gorm:"column:review;type:text"`
}
