package main

import (
	"context"
	"errors"
	"log"

	"github.com/pageza/recipevault/backend/config"
	"github.com/pageza/recipevault/backend/internal/database"
	"github.com/pageza/recipevault/backend/internal/models"
	"github.com/pageza/recipevault/backend/internal/service"
)

const (
	demoName     = "Demo User"
	demoEmail    = "demo@recipevault.dev"
	demoPassword = "demo-password-123"
)

var starterRecipes = []service.RecipeInput{
	{
		Name:        "Classic Spaghetti Carbonara",
		Category:    "Dinner",
		Difficulty:  "Medium",
		CookingTime: 30,
		Servings:    4,
		Ingredients: []string{
			"400g spaghetti",
			"200g guanciale",
			"4 egg yolks",
			"100g pecorino romano",
			"Black pepper",
		},
		Instructions: []string{
			"Cook the spaghetti in salted water until al dente.",
			"Render the guanciale in a cold pan over medium heat.",
			"Whisk the yolks with the cheese and plenty of pepper.",
			"Toss pasta, guanciale and egg mixture off the heat.",
		},
	},
	{
		Name:        "Overnight Oats",
		Category:    "Breakfast",
		Difficulty:  "Easy",
		CookingTime: 5,
		Servings:    1,
		Ingredients: []string{
			"50g rolled oats",
			"120ml milk",
			"1 tbsp chia seeds",
			"1 tsp honey",
		},
		Instructions: []string{
			"Combine everything in a jar.",
			"Refrigerate overnight.",
		},
	},
	{
		Name:        "Thai Green Curry",
		Category:    "Dinner",
		Difficulty:  "Hard",
		CookingTime: 55,
		Servings:    4,
		Ingredients: []string{
			"500g chicken thighs",
			"400ml coconut milk",
			"3 tbsp green curry paste",
			"Thai basil",
			"Jasmine rice",
		},
		Instructions: []string{
			"Fry the curry paste in coconut cream until fragrant.",
			"Add the chicken and remaining coconut milk.",
			"Simmer until the chicken is cooked through.",
			"Finish with Thai basil and serve over rice.",
		},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)

	user, _, err := authService.Register(ctx, demoName, demoEmail, demoPassword)
	if err != nil {
		if !errors.Is(err, service.ErrEmailTaken) {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		var existing models.User
		if err := db.WithContext(ctx).Where("email = ?", demoEmail).First(&existing).Error; err != nil {
			log.Fatalf("Failed to load demo user: %v", err)
		}
		user = &existing
		log.Printf("Demo user already exists: %s", demoEmail)
	} else {
		log.Printf("Created demo user: %s", demoEmail)
	}

	for _, input := range starterRecipes {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Recipe{}).
			Where("user_id = ? AND name = ?", user.ID, input.Name).
			Count(&count).Error; err != nil {
			log.Fatalf("Failed to check recipe %q: %v", input.Name, err)
		}
		if count > 0 {
			log.Printf("Recipe already seeded: %s", input.Name)
			continue
		}
		if _, err := recipeService.CreateRecipe(ctx, user.ID, input); err != nil {
			log.Fatalf("Failed to seed recipe %q: %v", input.Name, err)
		}
		log.Printf("Seeded recipe: %s", input.Name)
	}

	log.Println("Seeding complete")
}
