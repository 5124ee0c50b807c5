// seed-admin creates or updates the initial admin user so a fresh deployment
// can log in. Credentials come from ADMIN_USERNAME / ADMIN_PASSWORD, with
// development defaults.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/nguyentoan1998/stockflow_backend/config"
	"github.com/nguyentoan1998/stockflow_backend/models"
	"github.com/nguyentoan1998/stockflow_backend/utils"
	"gorm.io/gorm"
)

func main() {
	username := strings.TrimSpace(os.Getenv("ADMIN_USERNAME"))
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	var existing models.User
	err = db.Model(&models.User{}).Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"Password": string(hashed),
			"Role":     models.UserRoleAdmin,
			"IsActive": true,
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("updated admin user %q (id=%d)\n", username, existing.ID)
	case err == gorm.ErrRecordNotFound:
		user := models.User{
			Username: username,
			Name:     "Administrator",
			Password: string(hashed),
			Role:     models.UserRoleAdmin,
			IsActive: utils.NewTrue(),
		}
		if err := db.Create(&user).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("created admin user %q (id=%d)\n", username, user.ID)
	default:
		fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
		os.Exit(1)
	}
}
