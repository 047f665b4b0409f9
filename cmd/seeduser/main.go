// cmd/seeduser/main.go — creates or resets the demo admin user.
// Usage: go run ./cmd/seeduser
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "tiendapos.db"
	}
	username := "admin"
	password := "1234"
	name := "Admin Demo"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("migrate error: %v", err)
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO users (id, username, name, password_hash, role, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = excluded.password_hash,
		    name = excluded.name,
		    role = excluded.role,
		    active = 1
	`, uuid.NewString(), username, name, string(hash), model.RoleAdmin)

	if result.Error != nil {
		log.Fatalf("insert error: %v", result.Error)
	}
	fmt.Printf("user '%s' created/updated with password '%s'\n", username, password)
}
