package models

// MealDetails are the descriptive fields shared by menu items and upcoming
// meals. Name is the distributing admin's name; FoodName is the dish.
type MealDetails struct {
	Name        string  `bson:"name"        json:"name"        gorm:"column:name;size:255"`
	Email       string  `bson:"email"       json:"email"       gorm:"column:email;size:255;index"`
	FoodName    string  `bson:"foodname"    json:"foodname"    gorm:"column:food_name;size:255"`
	Category    string  `bson:"category"    json:"category"    gorm:"column:category;size:100"`
	Price       Number  `bson:"price"       json:"price"       gorm:"column:price"`
	Image       string  `bson:"image"       json:"image"       gorm:"column:image;size:1024"`
	Ingredients string  `bson:"ingredients" json:"ingredients" gorm:"column:ingredients;type:text"`
	Description string  `bson:"description" json:"description" gorm:"column:description;type:text"`
	Time        string  `bson:"time"        json:"time"        gorm:"column:serve_time;size:100"`
	Like        Count   `bson:"like"        json:"like"        gorm:"column:likes;not null;default:0"`
	Reviews     Count   `bson:"reviews"     json:"reviews"     gorm:"column:reviews;not null;default:0"`
}

// MenuItem is a dish on the current menu.
type MenuItem struct {
	ID          ID `bson:"_id,omitempty" json:"_id" gorm:"primaryKey;size:24"`
	MealDetails `bson:",inline" gorm:"embedded"`
}

func (MenuItem) TableName() string { return "menu_items" }

// UpcomingMeal is a dish announced for a future menu.
type UpcomingMeal struct {
	ID          ID `bson:"_id,omitempty" json:"_id" gorm:"primaryKey;size:24"`
	MealDetails `bson:",inline" gorm:"embedded"`
}

func (UpcomingMeal) TableName() string { return "upcoming_meals" }
