package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"divorce_intake_go/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
	// SessionTokenLength is the length of the session token in bytes (64 chars hex)
	SessionTokenLength = 32
	// DefaultSessionDuration is the default session duration (7 days)
	DefaultSessionDuration = 7 * 24 * time.Hour
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword verifies a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// AuthenticateAvocat verifies credentials and returns the lawyer account.
// An inactive account is rejected even with a correct password.
func AuthenticateAvocat(db *gorm.DB, email, password string) (*models.Avocat, error) {
	var avocat models.Avocat
	if err := db.Where("email = ?", email).First(&avocat).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !CheckPassword(password, avocat.Password) {
		return nil, fmt.Errorf("invalid credentials")
	}

	if !avocat.Actif {
		return nil, fmt.Errorf("account is inactive")
	}

	now := time.Now()
	avocat.DerniereConnexionAt = &now
	if err := db.Model(&avocat).Update("derniere_connexion_at", now).Error; err != nil {
		log.Printf("Failed to record last login for %s: %v", avocat.ID, err)
	}

	return &avocat, nil
}

// GenerateSessionToken generates a cryptographically secure random token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, SessionTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// CreateSession creates a new session for a lawyer
func CreateSession(db *gorm.DB, avocatID, ipAddress, userAgent string) (*models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		AvocatID:  avocatID,
		Token:     token,
		ExpiresAt: time.Now().Add(DefaultSessionDuration),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	if err := db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ValidateSession validates a session token and returns the session if valid
func ValidateSession(db *gorm.DB, token string) (*models.Session, error) {
	var session models.Session

	err := db.Preload("Avocat").
		Where("token = ?", token).
		First(&session).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	if session.IsExpired() {
		// Delete expired session
		db.Delete(&session)
		return nil, fmt.Errorf("session expired")
	}

	return &session, nil
}

// DeleteSession deletes a session (logout)
func DeleteSession(db *gorm.DB, token string) error {
	result := db.Where("token = ?", token).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	return nil
}

// CleanupExpiredSessions removes all expired sessions from the database
func CleanupExpiredSessions(db *gorm.DB) error {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to cleanup expired sessions: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d expired sessions", result.RowsAffected)
	}
	return nil
}
