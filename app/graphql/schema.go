// Package graphql exposes the public read side of the store as a GraphQL
// schema: the same data the unauthenticated GET routes return.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
	gql "github.com/hostelmania/server/pkg/graphql"
)

func mealFields() graphql.Fields {
	return graphql.Fields{
		"_id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":        &graphql.Field{Type: graphql.String},
		"email":       &graphql.Field{Type: graphql.String},
		"foodname":    &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
		"image":       &graphql.Field{Type: graphql.String},
		"ingredients": &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"time":        &graphql.Field{Type: graphql.String},
		"like":        &graphql.Field{Type: graphql.Int},
		"reviews":     &graphql.Field{Type: graphql.Int},
	}
}

var (
	menuItemType = graphql.NewObject(graphql.ObjectConfig{
		Name:   "MenuItem",
		Fields: mealFields(),
	})

	upcomingMealType = graphql.NewObject(graphql.ObjectConfig{
		Name:   "UpcomingMeal",
		Fields: mealFields(),
	})

	reviewType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Review",
		Fields: graphql.Fields{
			"_id":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"id":       &graphql.Field{Type: graphql.ID, Description: "Reviewed menu item."},
			"email":    &graphql.Field{Type: graphql.String},
			"name":     &graphql.Field{Type: graphql.String},
			"foodname": &graphql.Field{Type: graphql.String},
			"review":   &graphql.Field{Type: graphql.String},
		},
	})
)

// mealMap flattens a meal for the default resolver, which does not look
// into embedded structs.
func mealMap(id models.ID, d models.MealDetails) map[string]any {
	return map[string]any{
		"_id":         id.String(),
		"name":        d.Name,
		"email":       d.Email,
		"foodname":    d.FoodName,
		"category":    d.Category,
		"price":       float64(d.Price),
		"image":       d.Image,
		"ingredients": d.Ingredients,
		"description": d.Description,
		"time":        d.Time,
		"like":        int64(d.Like),
		"reviews":     int64(d.Reviews),
	}
}

func reviewMap(r models.Review) map[string]any {
	return map[string]any{
		"_id":      r.ID.String(),
		"id":       r.MenuID.String(),
		"email":    r.Email,
		"name":     r.Name,
		"foodname": r.FoodName,
		"review":   r.Review,
	}
}

func menuList(items []models.MenuItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, mealMap(it.ID, it.MealDetails))
	}
	return out
}

// NewSchema builds the query schema over store.
func NewSchema(store repositories.Store) (graphql.Schema, error) {
	emailArg := graphql.FieldConfigArgument{
		"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"menu": &graphql.Field{
				Type: graphql.NewList(menuItemType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					items, err := store.Menu().All(p.Context)
					if err != nil {
						return nil, err
					}
					return menuList(items), nil
				},
			},
			"menuItem": &graphql.Field{
				Type: menuItemType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, err := models.ParseID(p.Args["id"].(string))
					if err != nil {
						return nil, repositories.ErrInvalidID
					}
					item, err := store.Menu().FindByID(p.Context, id)
					if err != nil || item == nil {
						return nil, err
					}
					return mealMap(item.ID, item.MealDetails), nil
				},
			},
			"foodItems": &graphql.Field{
				Type: graphql.NewList(menuItemType),
				Args: emailArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					items, err := store.Menu().FindByEmail(p.Context, p.Args["email"].(string))
					if err != nil {
						return nil, err
					}
					return menuList(items), nil
				},
			},
			"upcomingMeals": &graphql.Field{
				Type: graphql.NewList(upcomingMealType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					meals, err := store.UpcomingMeals().All(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, 0, len(meals))
					for _, m := range meals {
						out = append(out, mealMap(m.ID, m.MealDetails))
					}
					return out, nil
				},
			},
			"myReviews": &graphql.Field{
				Type: graphql.NewList(reviewType),
				Args: emailArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					reviews, err := store.Reviews().FindByEmail(p.Context, p.Args["email"].(string))
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, 0, len(reviews))
					for _, r := range reviews {
						out = append(out, reviewMap(r))
					}
					return out, nil
				},
			},
		},
	})

	return gql.NewSchema(query)
}
