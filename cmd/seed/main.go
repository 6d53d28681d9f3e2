package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"pantrypal/internal/config"
	"pantrypal/internal/db"
	"pantrypal/internal/model"
	"pantrypal/internal/store"
)

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewSQLite(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	log.Println("Connected to database")

	if err := store.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	recipes := catalogRecipes()
	recipeStore := store.NewRecipeStore(gormDB)
	if err := recipeStore.UpsertAll(context.Background(), recipes); err != nil {
		log.Fatalf("Failed to seed recipes: %v", err)
	}

	log.Printf("Seeded %d recipes", len(recipes))
}

func ing(name, quantity string) model.RecipeIngredient {
	return model.RecipeIngredient{Name: name, Quantity: quantity}
}

// catalogRecipes is the built-in catalog: twenty Indian dishes with full
// ingredients, steps, and per-serving nutrition.
func catalogRecipes() []model.Recipe {
	return []model.Recipe{
		{
			ID:          "butter-chicken",
			Name:        "Butter Chicken (Murgh Makhani)",
			Description: "Creamy tomato-based curry with tender chicken",
			ImageURL:    "https://example.com/butter-chicken.jpg",
			Category:    "Dinner",
			CookingTime: 45,
			Difficulty:  "Medium",
			Ingredients: []model.RecipeIngredient{
				ing("chicken breast", "500g, cubed"),
				ing("tomatoes", "4, pureed"),
				ing("yogurt", "1 cup"),
				ing("ginger-garlic paste", "2 tbsp"),
				ing("garam masala", "1 tsp"),
				ing("turmeric", "1 tsp"),
				ing("butter", "2 tbsp"),
				ing("heavy cream", "1 cup"),
				ing("salt", "to taste"),
			},
			Instructions: []string{
				"Marinate chicken in yogurt, ginger-garlic paste, and spices for 30 minutes",
				"Cook marinated chicken in butter until golden",
				"Add tomato puree and simmer for 15 minutes",
				"Add cream and garam masala",
				"Simmer for 10 more minutes until thick",
				"Serve hot with naan or rice",
			},
			Nutrition: model.Nutrition{Calories: 420, Protein: 32, Carbs: 18, Fat: 26},
			Servings:  4,
			BaseScore: 95.0,
		},
		{
			ID:          "palak-paneer",
			Name:        "Palak Paneer",
			Description: "Spinach and paneer cheese curry",
			ImageURL:    "https://example.com/palak-paneer.jpg",
			Category:    "Dinner",
			CookingTime: 30,
			Difficulty:  "Easy",
			Ingredients: []model.RecipeIngredient{
				ing("paneer", "250g, cubed"),
				ing("spinach", "500g fresh"),
				ing("tomatoes", "2, chopped"),
				ing("onion", "1, chopped"),
				ing("ginger-garlic paste", "2 tsp"),
				ing("garam masala", "1 tsp"),
				ing("cumin seeds", "1 tsp"),
				ing("cream", "2 tbsp"),
				ing("salt", "to taste"),
			},
			Instructions: []string{
				"Blanch spinach and puree it",
				"Saute cumin seeds, onions, and ginger-garlic paste",
				"Add tomatoes and cook until soft",
				"Add spinach puree and spices",
				"Add paneer cubes and cream",
				"Simmer for 5 minutes and serve",
			},
			Nutrition: model.Nutrition{Calories: 280, Protein: 16, Carbs: 14, Fat: 18},
			Servings:  4,
			BaseScore: 90.0,
		},
		{
			ID:          "chicken-biryani",
			Name:        "Chicken Biryani",
			Description: "Fragrant rice with layered chicken",
			ImageURL:    "https://example.com/chicken-biryani.jpg",
			Category:    "Dinner",
			CookingTime: 60,
			Difficulty:  "Hard",
			Ingredients: []model.RecipeIngredient{
				ing("chicken", "500g"),
				ing("basmati rice", "2 cups"),
				ing("onions", "2, sliced"),
				ing("yogurt", "1 cup"),
				ing("ginger-garlic paste", "2 tbsp"),
				ing("garam masala", "2 tsp"),
				ing("turmeric", "1 tsp"),
				ing("green chilies", "4"),
				ing("coriander", "fresh"),
				ing("saffron", "soaked in milk"),
			},
			Instructions: []string{
				"Marinate chicken in yogurt and spices",
				"Parboil rice with whole spices",
				"Fry onions until golden brown",
				"Layer marinated chicken in pot",
				"Layer rice and fried onions",
				"Cover and cook on low heat for 30 minutes",
				"Serve with raita",
			},
			Nutrition: model.Nutrition{Calories: 520, Protein: 28, Carbs: 65, Fat: 16},
			Servings:  6,
			BaseScore: 85.0,
		},
		{
			ID:          "chana-masala",
			Name:        "Chana Masala (Chickpea Curry)",
			Description: "Spiced chickpea curry",
			ImageURL:    "https://example.com/chana-masala.jpg",
			Category:    "Dinner",
			CookingTime: 35,
			Difficulty:  "Easy",
			Ingredients: []model.RecipeIngredient{
				ing("chickpeas", "2 cups, cooked"),
				ing("tomatoes", "3, pureed"),
				ing("onions", "2, chopped"),
				ing("ginger-garlic paste", "1 tbsp"),
				ing("garam masala", "2 tsp"),
				ing("cumin seeds", "1 tsp"),
				ing("turmeric", "1 tsp"),
				ing("green chilies", "2"),
				ing("coriander", "fresh"),
			},
			Instructions: []string{
				"Saute cumin seeds and onions",
				"Add ginger-garlic paste and tomatoes",
				"Add spices and cook until oil separates",
				"Add chickpeas and water",
				"Simmer for 15 minutes",
				"Garnish with coriander",
			},
			Nutrition: model.Nutrition{Calories: 240, Protein: 12, Carbs: 38, Fat: 6},
			Servings:  4,
			BaseScore: 92.0,
		},
		{
			ID:          "dal-tadka",
			Name:        "Dal Tadka",
			Description: "Lentil soup with tempering",
			ImageURL:    "https://example.com/dal-tadka.jpg",
			Category:    "Dinner",
			CookingTime: 30,
			Difficulty:  "Easy",
			Ingredients: []model.RecipeIngredient{
				ing("yellow lentils", "1 cup toor dal"),
				ing("tomatoes", "2, chopped"),
				ing("onion", "1, chopped"),
				ing("cumin seeds", "2 tsp"),
				ing("turmeric", "1 tsp"),
				ing("green chilies", "2"),
				ing("ghee", "2 tbsp"),
				ing("garlic", "cloves"),
				ing("coriander", "fresh"),
			},
			Instructions: []string{
				"Pressure cook lentils with turmeric until soft",
				"Heat ghee and add cumin seeds",
				"Add garlic, onions, and green chilies",
				"Add tomatoes and cook until soft",
				"Pour tadka over cooked dal",
				"Garnish with coriander",
			},
			Nutrition: model.Nutrition{Calories: 180, Protein: 10, Carbs: 26, Fat: 4},
			Servings:  4,
			BaseScore: 90.0,
		},
		{
			ID:          "aloo-gobi",
			Name:        "Aloo Gobi (Potato Cauliflower)",
			Description: "Spiced potato and cauliflower stir-fry",
			ImageURL:    "https://example.com/aloo-gobi.jpg",
			Category:    "Dinner",
			CookingTime: 25,
			Difficulty:  "Easy",
			Ingredients: []model.RecipeIngredient{
				ing("potatoes", "3, cubed"),
				ing("cauliflower", "1 small"),
				ing("tomatoes", "2, chopped"),
				ing("cumin seeds", "1 tsp"),
				ing("turmeric", "1 tsp"),
				ing("garam masala", "1 tsp"),
				ing("green chilies", "2"),
				ing("coriander", "fresh"),
			},
			Instructions: []string{
				"Saute cumin seeds",
				"Add potatoes and cauliflower",
				"Add tomatoes and spices",
				"Cover and cook until vegetables are tender",
				"Garnish with coriander",
			},
			Nutrition: model.Nutrition{Calories: 150, Protein: 4, Carbs: 28, Fat: 3},
			Servings:  4,
			BaseScore: 88.0,
		},
		{
			ID:          "paneer-tikka",
			Name:        "Paneer Tikka",
			Description: "Grilled paneer and vegetable skewers",
			ImageURL:    "https://example.com/paneer-tikka.jpg",
			Category:    "Snacks",
			CookingTime: 20,
			Difficulty:  "Easy",
			Ingredients: []model.RecipeIngredient{
				ing("paneer", "250g, cubed"),
				ing("yogurt", "1/2 cup"),
				ing("bell peppers", "2, cubed"),
				ing("onion", "1, cubed"),
				ing("tikka masala", "2 tbsp"),
				ing("ginger-garlic paste", "1 tsp"),
				ing("lemon juice", ""),
				ing("oil", "for grilling"),
			},
			Instructions: []string{
				"Marinate paneer and vegetables in yogurt and spices",
				"Thread onto skewers",
				"Grill or bake until golden",
				"Serve hot with chutney",
			},
			Nutrition: model.Nutrition{Calories: 220, Protein: 14, Carbs: 12, Fat: 14},
			Servings:  4,
			BaseScore: 85.0,
		},
		{
			ID:          "jeera-rice",
			Name:        "Jeera Rice (Cumin Rice)",
			Description: "Fragrant rice with cumin",
			ImageURL:    "https://example.com/jeera-rice.jpg",
			Category:    "Dinner",
			CookingTime: 20,
			Difficulty:  "Easy",
			Ingredients: []model.RecipeIngredient{
				ing("basmati rice", "2 cups"),
				ing("cumin seeds", "2 tsp"),
				ing("ghee", "2 tbsp"),
				ing("bay leaf", "1"),
				ing("green chilies", "2"),
				ing("salt", "to taste"),
			},
			Instructions: []string{
				"Wash and soak rice for 20 minutes",
				"Heat ghee and add cumin seeds",
				"Add bay leaf and green chilies",
				"Add rice and saute for 2 minutes",
				"Add water and cook until rice is done",
				"Fluff and serve",
			},
			Nutrition: model.Nutrition{Calories: 280, Protein: 6, Carbs: 52, Fat: 6},
			Servings:  4,
			BaseScore: 95.0,
		},
		{
			ID:          "chicken-curry",
			Name:        "Chicken Curry",
			Description: "Classic Indian chicken curry",
			ImageURL:    "https://example.com/chicken-curry.jpg",
			Category:    "Dinner",
			CookingTime: 40,
			Difficulty:  "Medium",
			Ingredients: []model.RecipeIngredient{
				ing("chicken", "500g"),
				ing("tomatoes", "3, pureed"),
				ing("onions", "2, chopped"),
				ing("ginger-garlic paste", "1 tbsp"),
				ing("curry powder", "2 tsp"),
				ing("turmeric", "1 tsp"),
				ing("garam masala", "1 tsp"),
				ing("green chilies", "2"),
				ing("coriander", "fresh"),
			},
			Instructions: []string{
				"Saute onions until golden",
				"Add ginger-garlic paste",
				"Add tomato puree and spices",
				"Add chicken and cook",
				"Add water and simmer until chicken is tender",
				"Garnish with coriander",
			},
			Nutrition: model.Nutrition{Calories: 320, Protein: 28, Carbs: 16, Fat: 16},
			Servings:  4,
			BaseScore: 92.0,
		},
		{
			ID:          "masala-dosa",
			Name:        "Masala Dosa",
			Description: "Crispy fermented rice crepe with potato filling",
			ImageURL:    "https://example.com/masala-dosa.jpg",
			Category:    "Breakfast",
			CookingTime: 30,
			Difficulty:  "Medium",
			Ingredients: []model.RecipeIngredient{
				ing("dosa batter", "2 cups"),
				ing("potatoes", "4, boiled and mashed"),
				ing("onion", "1, chopped"),
				ing("green chilies", "2"),
				ing("mustard seeds", "1 tsp"),
				ing("turmeric", "1 tsp"),
				ing("curry leaves", ""),
				ing("oil", "for dosa"),
			},
			Instructions: []string{
				"Prepare potato filling with spices",
				"Heat dosa pan",
				"Spread dosa batter thin",
				"Add potato filling in center",
				"Fold and serve with chutney",
			},
			Nutrition: model.Nutrition{Calories: 280, Protein: 6, Carbs: 48, Fat: 6},
			Servings:  4,
			BaseScore: 75.0,
		},
		{
			ID:          "cucumber-raita",
			Name:        "Cucumber Raita",
			Description: "Yogurt-based side dish with cucumber",
			ImageURL:    "https://example.com/raita.jpg",
			Category:    "Snacks",
			CookingTime: 10,
			Difficulty:  "Easy",
			Ingredients: []model.RecipeIngredient{
				ing("yogurt", "2 cups"),
				ing("cucumber", "1, grated"),
				ing("cumin powder", "1 tsp"),
				ing("salt", "to taste"),
				ing("coriander", "fresh"),
			},
			Instructions: []string{
				"Mix yogurt with grated cucumber",
				"Add cumin powder and salt",
				"Garnish with coriander",
				"Chill and serve",
			},
			Nutrition: model.Nutrition{Calories: 120, Protein: 4, Carbs: 8, Fat: 6},
			Servings:  4,
			BaseScore: 85.0,
		},
		{
			ID:          "samosas",
			Name:        "Samosas",
			Description: "Crispy pastry with spiced potato filling",
			ImageURL:    "https://example.com/samosa.jpg",
			Category:    "Snacks",
			CookingTime: 40,
			Difficulty:  "Medium",
			Ingredients: []model.RecipeIngredient{
				ing("flour", "2 cups"),
				ing("potatoes", "3, boiled"),
				ing("peas", "1 cup"),
				ing("green chilies", "2"),
				ing("garam masala", "1 tsp"),
				ing("oil", "for frying"),
			},
			Instructions: []string{
				"Prepare dough with flour and oil",
				"Roll and cut into triangles",
				"Prepare potato-peas filling",
				"Fill and seal samosas",
				"Deep fry until golden",
			},
			Nutrition: model.Nutrition{Calories: 280, Protein: 5, Carbs: 35, Fat: 12},
			Servings:  4,
			BaseScore: 80.0,
		},
		{
			ID:          "chole-bhature",
			Name:        "Chole Bhature",
			Description: "Fluffy fried bread with chickpea curry",
			ImageURL:    "https://example.com/chole-bhature.jpg",
			Category:    "Breakfast",
			CookingTime: 45,
			Difficulty:  "Hard",
			Ingredients: []model.RecipeIngredient{
				ing("flour", "3 cups"),
				ing("chickpeas", "2 cups"),
				ing("onions", "2"),
				ing("tomatoes", "3"),
				ing("yogurt", ""),
				ing("ginger-garlic paste", ""),
			},
			Instructions: []string{
				"Prepare dough with yogurt",
				"Let it rest for 4 hours",
				"Prepare chickpea curry",
				"Deep fry bhature until puffed",
				"Serve with curry and pickle",
			},
			Nutrition: model.Nutrition{Calories: 450, Protein: 15, Carbs: 68, Fat: 14},
			Servings:  4,
			BaseScore: 82.0,
		},
		{
			ID:          "tandoori-chicken",
			Name:        "Tandoori Chicken",
			Description: "Grilled chicken in yogurt marinade",
			ImageURL:    "https://example.com/tandoori-chicken.jpg",
			Category:    "Dinner",
			CookingTime: 40,
			Difficulty:  "Medium",
			Ingredients: []model.RecipeIngredient{
				ing("chicken", "1 kg"),
				ing("yogurt", "1 cup"),
				ing("tandoori masala", "2 tbsp"),
				ing("ginger-garlic paste", "2 tbsp"),
				ing("lemon juice", ""),
				ing("oil", ""),
			},
			Instructions: []string{
				"Mix yogurt with tandoori masala and spices",
				"Marinate chicken for 2-4 hours",
				"Grill or bake at 400F",
				"Baste with butter",
				"Serve with lemon and onions",
			},
			Nutrition: model.Nutrition{Calories: 380, Protein: 45, Carbs: 8, Fat: 18},
			Servings:  4,
			BaseScore: 88.0,
		},
		{
			ID:          "vegetable-biryani",
			Name:        "Vegetable Biryani",
			Description: "Fragrant vegetable rice",
			ImageURL:    "https://example.com/veg-biryani.jpg",
			Category:    "Dinner",
			CookingTime: 50,
			Difficulty:  "Medium",
			Ingredients: []model.RecipeIngredient{
				ing("basmati rice", "2 cups"),
				ing("mixed vegetables", "2 cups"),
				ing("onions", "2"),
				ing("ghee", "2 tbsp"),
				ing("garam masala", "2 tsp"),
			},
			Instructions: []string{
				"Boil rice with spices",
				"Saute vegetables with ghee",
				"Layer rice and vegetables",
				"Cook covered for 15 minutes",
			},
			Nutrition: model.Nutrition{Calories: 320, Protein: 8, Carbs: 58, Fat: 8},
			Servings:  4,
			BaseScore: 80.0,
		},
		{
			ID:          "garlic-naan",
			Name:        "Garlic Naan",
			Description: "Flatbread with garlic butter",
			ImageURL:    "https://example.com/naan.jpg",
			Category:    "Dinner",
			CookingTime: 20,
			Difficulty:  "Easy",
			Ingredients: []model.RecipeIngredient{
				ing("flour", "3 cups"),
				ing("yogurt", "1 cup"),
				ing("ghee", "2 tbsp"),
				ing("garlic", "cloves"),
				ing("salt", ""),
			},
			Instructions: []string{
				"Prepare dough with flour and yogurt",
				"Rest for 2 hours",
				"Roll into oval shapes",
				"Cook on hot skillet",
				"Brush with garlic butter",
			},
			Nutrition: model.Nutrition{Calories: 240, Protein: 6, Carbs: 40, Fat: 8},
			Servings:  4,
			BaseScore: 85.0,
		},
		{
			ID:          "gulab-jamun",
			Name:        "Gulab Jamun",
			Description: "Sweet milk ball dessert",
			ImageURL:    "https://example.com/gulab-jamun.jpg",
			Category:    "Dessert",
			CookingTime: 30,
			Difficulty:  "Medium",
			Ingredients: []model.RecipeIngredient{
				ing("milk powder", "1 cup"),
				ing("flour", "1/2 cup"),
				ing("ghee", "4 tbsp"),
				ing("sugar", "2 cups"),
				ing("water", ""),
				ing("cardamom", ""),
			},
			Instructions: []string{
				"Mix milk powder and flour",
				"Make into balls",
				"Deep fry until golden",
				"Soak in sugar syrup",
			},
			Nutrition: model.Nutrition{Calories: 180, Protein: 2, Carbs: 32, Fat: 6},
			Servings:  4,
			BaseScore: 75.0,
		},
		{
			ID:          "kheer",
			Name:        "Kheer",
			Description: "Rice pudding dessert",
			ImageURL:    "https://example.com/kheer.jpg",
			Category:    "Dessert",
			CookingTime: 25,
			Difficulty:  "Easy",
			Ingredients: []model.RecipeIngredient{
				ing("rice", "1 cup"),
				ing("milk", "1 liter"),
				ing("sugar", "1/2 cup"),
				ing("cardamom", ""),
				ing("nuts", ""),
			},
			Instructions: []string{
				"Fry rice in ghee",
				"Add milk and sugar",
				"Simmer until rice is soft",
				"Garnish with nuts and cardamom",
			},
			Nutrition: model.Nutrition{Calories: 220, Protein: 6, Carbs: 35, Fat: 8},
			Servings:  4,
			BaseScore: 80.0,
		},
		{
			ID:          "idli",
			Name:        "Idli",
			Description: "Steamed rice cake",
			ImageURL:    "https://example.com/idli.jpg",
			Category:    "Breakfast",
			CookingTime: 20,
			Difficulty:  "Easy",
			Ingredients: []model.RecipeIngredient{
				ing("rice", "2 cups"),
				ing("lentils", "1 cup"),
				ing("salt", ""),
				ing("water", ""),
			},
			Instructions: []string{
				"Soak rice and lentils",
				"Grind into batter",
				"Ferment overnight",
				"Pour into molds",
				"Steam for 10 minutes",
			},
			Nutrition: model.Nutrition{Calories: 140, Protein: 4, Carbs: 28, Fat: 2},
			Servings:  4,
			BaseScore: 70.0,
		},
		{
			ID:          "uttapam",
			Name:        "Uttapam",
			Description: "Thick Indian pancake",
			ImageURL:    "https://example.com/uttapam.jpg",
			Category:    "Breakfast",
			CookingTime: 25,
			Difficulty:  "Easy",
			Ingredients: []model.RecipeIngredient{
				ing("idli batter", ""),
				ing("onions", ""),
				ing("tomatoes", ""),
				ing("green chilies", ""),
				ing("oil", ""),
			},
			Instructions: []string{
				"Heat griddle",
				"Pour thick batter",
				"Add toppings",
				"Cook until golden",
				"Serve with chutney",
			},
			Nutrition: model.Nutrition{Calories: 180, Protein: 5, Carbs: 32, Fat: 5},
			Servings:  4,
			BaseScore: 78.0,
		},
	}
}
