package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/config"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/database"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// Parse command line flags
	role := flag.String("role", "admin", "User role (admin or user)")
	flag.Parse()

	_ = godotenv.Load()
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.InitDatabase(database.FromConfig(conf))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Determine client credentials based on role
	var clientID, clientSecret string
	if *role == "user" {
		clientID = "user-client"
		clientSecret = "user-secret-123"
	} else {
		clientID = "dev-client"
		clientSecret = "dev-secret-123"
	}

	// Check if client already exists
	var existing models.OAuthClient
	if err := db.Where("id = ?", clientID).First(&existing).Error; err == nil {
		fmt.Printf("Development client already exists for role '%s'!\n", *role)
		fmt.Printf("Client ID: %s\n", clientID)
		fmt.Printf("Client Secret: %s\n", clientSecret)
		return
	}

	user, err := getOrCreateUser(db, *role)
	if err != nil {
		log.Fatal("Failed to get user for role:", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash secret:", err)
	}

	client := models.OAuthClient{
		ID:     clientID,
		Secret: string(hash),
		Name:   fmt.Sprintf("Development %s Client", *role),
		Domain: "http://localhost",
		UserID: user.ID,
		Scopes: "read write",
	}
	if err := db.Create(&client).Error; err != nil {
		log.Fatal("Failed to create client:", err)
	}

	fmt.Printf("Development OAuth client created for role '%s'\n", *role)
	fmt.Printf("Client ID: %s\n", clientID)
	fmt.Printf("Client Secret: %s\n", clientSecret)
	fmt.Printf("User ID: %s (admin: %t)\n", user.ID, user.IsAdmin)
	fmt.Println("\nUse these credentials for testing:")
	fmt.Printf("curl -X POST http://localhost:%d/oauth/token \\\n", conf.Port)
	fmt.Printf("  -d 'grant_type=client_credentials' \\\n")
	fmt.Printf("  -d 'client_id=%s' \\\n", clientID)
	fmt.Printf("  -d 'client_secret=%s'\n", clientSecret)
}

// getOrCreateUser finds or creates the local user a development client acts as
func getOrCreateUser(db *gorm.DB, role string) (*models.User, error) {
	id := "dev-" + role
	var user models.User
	err := db.Where("id = ?", id).First(&user).Error
	if err == nil {
		fmt.Printf("Found existing user: %s (admin: %t)\n", user.ID, user.IsAdmin)
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := fmt.Sprintf("%s@pizza.com", role)
	user = models.User{ID: id, Email: &email, FirstName: "Dev", LastName: role, IsAdmin: role == "admin"}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
