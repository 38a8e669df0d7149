package database

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ryansh/mediarater/internal/auth"
	"github.com/ryansh/mediarater/internal/config"
	"github.com/ryansh/mediarater/internal/logger"
)

// defaultTags is the seeded tag vocabulary. Seeding is additive and
// idempotent; tags removed from this list are left in place.
var defaultTags = []Tag{
	{Name: "Action", Category: TagCategoryCinematic},
	{Name: "Animation", Category: TagCategoryCinematic},
	{Name: "Comedy", Category: TagCategoryCinematic},
	{Name: "Documentary", Category: TagCategoryCinematic},
	{Name: "Drama", Category: TagCategoryCinematic},
	{Name: "Horror", Category: TagCategoryCinematic},
	{Name: "Sci-Fi", Category: TagCategoryCinematic},
	{Name: "Thriller", Category: TagCategoryCinematic},
	{Name: "Classical", Category: TagCategoryMusical},
	{Name: "Country", Category: TagCategoryMusical},
	{Name: "Electronic", Category: TagCategoryMusical},
	{Name: "Hip-Hop", Category: TagCategoryMusical},
	{Name: "Jazz", Category: TagCategoryMusical},
	{Name: "Pop", Category: TagCategoryMusical},
	{Name: "R&B", Category: TagCategoryMusical},
	{Name: "Rock", Category: TagCategoryMusical},
}

// Seed runs the idempotent startup migration: the single admin account and
// the tag vocabulary. It must complete before the server accepts traffic.
func Seed(db *gorm.DB, cfg *config.Config) error {
	if err := seedAdmin(db, &cfg.Auth); err != nil {
		return err
	}
	return seedTags(db)
}

func seedAdmin(db *gorm.DB, cfg *config.AuthConfig) error {
	var existing User
	err := db.Where("username = ?", cfg.AdminUsername).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	password := cfg.AdminPassword
	if password == "" {
		generated, err := randomPassword()
		if err != nil {
			return err
		}
		password = generated
		logger.Warn("no admin password configured, generated one",
			"username", cfg.AdminUsername, "password", password)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := User{Username: cfg.AdminUsername, PasswordHash: hash}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("seeded admin user", "username", cfg.AdminUsername)
	return nil
}

func seedTags(db *gorm.DB) error {
	for _, tag := range defaultTags {
		err := db.Where("name = ? AND category = ?", tag.Name, tag.Category).
			FirstOrCreate(&Tag{}, tag).Error
		if err != nil {
			return fmt.Errorf("failed to seed tag %q: %w", tag.Name, err)
		}
	}
	return nil
}

func randomPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate admin password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
