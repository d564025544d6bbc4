package seeders

import (
	"context"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
)

// DemoAdminEmail owns the seeded dishes.
const DemoAdminEmail = "admin@hostelmania.local"

func init() {
	Register("admin", SeedAdmin)
	Register("menu", SeedMenu)
	Register("upcoming_meals", SeedUpcomingMeals)
}

var demoMenu = []models.MealDetails{
	{
		FoodName:    "Masala Khichdi",
		Category:    "breakfast",
		Price:       2.5,
		Ingredients: "rice, moong dal, ghee, cumin",
		Description: "Soft rice and lentils tempered with cumin.",
		Time:        "08:00",
	},
	{
		FoodName:    "Rajma Chawal",
		Category:    "lunch",
		Price:       3.75,
		Ingredients: "kidney beans, tomato, onion, rice",
		Description: "Slow-cooked kidney bean curry on steamed rice.",
		Time:        "13:00",
	},
	{
		FoodName:    "Paneer Butter Masala",
		Category:    "dinner",
		Price:       4.5,
		Ingredients: "paneer, butter, cream, tomato",
		Description: "Cottage cheese in a mild tomato gravy with two rotis.",
		Time:        "20:00",
	},
}

var demoUpcoming = []models.MealDetails{
	{
		FoodName:    "Chicken Biryani",
		Category:    "dinner",
		Price:       5.25,
		Ingredients: "basmati rice, chicken, saffron, fried onion",
		Description: "Friday special.",
		Time:        "20:00",
	},
	{
		FoodName:    "Aloo Paratha",
		Category:    "breakfast",
		Price:       2,
		Ingredients: "wheat flour, potato, butter",
		Description: "Served with curd and pickle.",
		Time:        "08:00",
	},
}

func owned(d models.MealDetails) models.MealDetails {
	d.Name = "Mess Admin"
	d.Email = DemoAdminEmail
	return d
}

// SeedAdmin creates the demo admin account.
func SeedAdmin(ctx context.Context, store repositories.Store) error {
	u, err := store.Users().FindByEmail(ctx, DemoAdminEmail)
	if err != nil {
		return err
	}
	if u == nil {
		res, err := store.Users().Create(ctx, &models.User{Name: "Mess Admin", Email: DemoAdminEmail, Role: models.RoleMember})
		if err != nil {
			return err
		}
		_, err = store.Users().SetRole(ctx, *res.InsertedID, models.RoleAdmin)
		return err
	}
	if !u.IsAdmin() {
		_, err = store.Users().SetRole(ctx, u.ID, models.RoleAdmin)
	}
	return err
}

// SeedMenu adds the demo dishes unless the admin already has a menu.
func SeedMenu(ctx context.Context, store repositories.Store) error {
	existing, err := store.Menu().FindByEmail(ctx, DemoAdminEmail)
	if err != nil || len(existing) > 0 {
		return err
	}
	for _, d := range demoMenu {
		if _, err := store.Menu().Create(ctx, &models.MenuItem{MealDetails: owned(d)}); err != nil {
			return err
		}
	}
	return nil
}

// SeedUpcomingMeals announces the demo dishes when nothing is announced.
func SeedUpcomingMeals(ctx context.Context, store repositories.Store) error {
	existing, err := store.UpcomingMeals().All(ctx)
	if err != nil || len(existing) > 0 {
		return err
	}
	for _, d := range demoUpcoming {
		if _, err := store.UpcomingMeals().Create(ctx, &models.UpcomingMeal{MealDetails: owned(d)}); err != nil {
			return err
		}
	}
	return nil
}
