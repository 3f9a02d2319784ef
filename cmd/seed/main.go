// seed inserts development sample data for local testing: a cashier, a POS profile, and the app logo.
// Idempotent: skips inserts if the dev user (cashier@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	appsettingsdomain "github.com/MohamedAliSmk/pos-app/internal/appsettings/domain"
	appsettingsrepo "github.com/MohamedAliSmk/pos-app/internal/appsettings/repository"
	"github.com/MohamedAliSmk/pos-app/internal/config"
	"github.com/MohamedAliSmk/pos-app/internal/db"
	posprofiledomain "github.com/MohamedAliSmk/pos-app/internal/posprofile/domain"
	posprofilerepo "github.com/MohamedAliSmk/pos-app/internal/posprofile/repository"
	"github.com/MohamedAliSmk/pos-app/internal/security"
	userdomain "github.com/MohamedAliSmk/pos-app/internal/user/domain"
	userrepo "github.com/MohamedAliSmk/pos-app/internal/user/repository"
)

const (
	devUserID      = "cashier@example.com"
	devUserEmail   = "cashier@example.com"
	devPassword    = "password123"
	devProfileName = "Main Till"
	devLogoPath    = "/files/pos-logo.png"
)

var devRoles = []string{"POS User", "Sales User"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	users := userrepo.NewPostgresRepository(conn)
	profiles := posprofilerepo.NewPostgresRepository(conn)
	settings := appsettingsrepo.NewPostgresRepository(conn)
	ctx := context.Background()

	existing, err := users.GetByID(ctx, devUserID)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Printf("Seed already applied (%s exists). Skipping.", devUserID)
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	if err := users.Create(ctx, &userdomain.User{
		ID:           devUserID,
		Email:        devUserEmail,
		FullName:     "Dev Cashier",
		UserImage:    "/files/cashier.png",
		PasswordHash: passwordHash,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		log.Fatalf("create dev user: %v", err)
	}
	for _, role := range devRoles {
		if err := users.AddRole(ctx, devUserID, role); err != nil {
			log.Fatalf("add role %s: %v", role, err)
		}
	}

	if err := profiles.Create(ctx, &posprofiledomain.Profile{
		Name:             devProfileName,
		Customer:         "Walk-in Customer",
		SellingPriceList: "Standard Selling",
		ItemGroups:       []string{"Beverages", "Snacks"},
		CompanyAddress:   "Acme Trading, Main Street",
		CustomLogo:       "/files/receipt-logo.png",
		CRNo:             "1010101010",
		GSM:              "+966500000000",
		POBox:            "12345",
		Address:          "Riyadh",
		Terms:            "Goods sold are not returnable.",
	}); err != nil {
		log.Fatalf("create pos profile: %v", err)
	}
	if err := profiles.AssignUser(ctx, devProfileName, devUserID); err != nil {
		log.Fatalf("assign pos profile: %v", err)
	}

	if err := settings.Set(ctx, appsettingsdomain.KeyPOSLogo, devLogoPath); err != nil {
		log.Fatalf("set app logo: %v", err)
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Dev login: %s / %s (site %s)\n", devUserEmail, devPassword, cfg.SiteURL)
}
