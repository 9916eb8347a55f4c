package database

import (
	"log"
	"time"

	"github.com/bdybsjord/Echomedic/internal/config"
	"github.com/bdybsjord/Echomedic/internal/models"
	"github.com/bdybsjord/Echomedic/internal/store"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		DB, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	if err := DB.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	if err := store.Migrate(DB); err != nil {
		log.Fatalf("failed to migrate documents: %v", err)
	}

	createDefaultManager(cfg.AdminEmail, cfg.AdminPassword)
	seedDefaultUsers()
}

// manager account comes from config only, never from a registration form
func createDefaultManager(email, password string) {
	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleManager).
		Count(&count).Error; err != nil {
		log.Printf("failed to check manager user: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash default manager password: %v", err)
		return
	}

	manager := models.User{
		Email:        email,
		Name:         "Risk Manager",
		PasswordHash: string(hash),
		Role:         models.RoleManager,
	}

	if err := DB.Create(&manager).Error; err != nil {
		log.Printf("failed to create default manager: %v", err)
		return
	}

	log.Printf("created default manager user: %s", email)
}

func seedDefaultUsers() {
	type seedUser struct {
		Email    string
		Name     string
		Password string
		Role     models.UserRole
	}

	users := []seedUser{
		{
			Email:    "leser@echomedic.local",
			Name:     "Read-only Viewer",
			Password: "Leser123!",
			Role:     models.RoleReader,
		},
	}

	for _, u := range users {
		var count int64
		if err := DB.Model(&models.User{}).
			Where("email = ?", u.Email).
			Count(&count).Error; err != nil {
			log.Printf("failed to check seed user %s: %v", u.Email, err)
			continue
		}
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("failed to hash password for %s: %v", u.Email, err)
			continue
		}

		user := models.User{
			Email:        u.Email,
			Name:         u.Name,
			PasswordHash: string(hash),
			Role:         u.Role,
		}

		if err := DB.Create(&user).Error; err != nil {
			log.Printf("failed to create seed user %s: %v", u.Email, err)
			continue
		}

		log.Printf("created seed user: %s (role=%s)", u.Email, u.Role)
	}
}
