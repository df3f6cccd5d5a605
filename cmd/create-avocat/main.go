package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"divorce_intake_go/config"
	"divorce_intake_go/db"
	"divorce_intake_go/models"
	"divorce_intake_go/services"

	"golang.org/x/term"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.Avocat{}, &models.Session{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Lawyer Account ===")
	fmt.Println()

	fmt.Print("Nom: ")
	nom, _ := reader.ReadString('\n')
	nom = strings.TrimSpace(nom)

	fmt.Print("Prenom: ")
	prenom, _ := reader.ReadString('\n')
	prenom = strings.TrimSpace(prenom)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Barreau: ")
	barreau, _ := reader.ReadString('\n')
	barreau = strings.TrimSpace(barreau)

	// Get password securely
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	password := string(passwordBytes)
	fmt.Println()

	if nom == "" || email == "" || password == "" {
		log.Fatal("Nom, email, and password are required")
	}

	if len(password) < 8 {
		log.Fatal("Password must be at least 8 characters long")
	}

	// Check if the account already exists
	var existing models.Avocat
	if err := db.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Fatalf("Lawyer with email %s already exists", email)
	}

	avocat, err := services.SeedAvocat(db.DB, nom, prenom, email, password, barreau)
	if err != nil {
		log.Fatalf("Failed to create lawyer account: %v", err)
	}

	fmt.Println()
	fmt.Println("✓ Lawyer account created successfully!")
	fmt.Printf("  ID: %s\n", avocat.ID)
	fmt.Printf("  Nom: %s\n", avocat.NomComplet())
	fmt.Printf("  Email: %s\n", avocat.Email)
	fmt.Println()
	fmt.Printf("Login at %s/login\n", cfg.AppURL)
}
