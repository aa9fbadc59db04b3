package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"jobboard/internal/config"
	"jobboard/internal/logging"
	"jobboard/internal/repository/sqlite"
	"jobboard/internal/seed"
	"jobboard/internal/service"
)

func main() {
	var (
		command  = flag.String("cmd", "", "Command to run: create-admin, deactivate-admin, activate-admin, seed")
		username = flag.String("username", "", "Admin username (create-admin, deactivate-admin, activate-admin; seed owner)")
		password = flag.String("password", "", "Admin password (create-admin)")
		email    = flag.String("email", "", "Admin email (create-admin)")
		name     = flag.String("name", "Super Admin", "Admin display name (create-admin)")
		validFor = flag.Duration("valid-for", 30*24*time.Hour, "How long seeded listings stay open (seed)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help || *command == "" {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		logrus.Fatalf("setup logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	adminRepo := sqlite.NewAdminRepository(db)
	listingRepo := sqlite.NewListingRepository(db)
	if err := adminRepo.Init(ctx); err != nil {
		logger.Fatalf("init admin repository: %v", err)
	}
	if err := listingRepo.Init(ctx); err != nil {
		logger.Fatalf("init listing repository: %v", err)
	}

	authService := service.NewAuthService(adminRepo, service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), service.AuthOptions{
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	})
	listingService := service.NewListingService(listingRepo, service.ListingOptions{Logger: logger})

	switch *command {
	case "create-admin":
		admin, created, err := authService.EnsureBootstrapAdmin(ctx, service.RegisterInput{
			Username: *username,
			Password: *password,
			Email:    *email,
			Name:     *name,
		})
		if err != nil {
			logger.Fatalf("create admin: %v", err)
		}
		if !created {
			fmt.Printf("admin %q already exists (id %s)\n", admin.Username, admin.ID)
			return
		}
		fmt.Printf("created super admin %q (id %s)\n", admin.Username, admin.ID)

	case "deactivate-admin", "activate-admin":
		if *username == "" {
			logger.Fatalf("%s requires -username", *command)
		}
		admin, err := authService.SetActive(ctx, *username, *command == "activate-admin")
		if err != nil {
			logger.Fatalf("%s: %v", *command, err)
		}
		state := "deactivated"
		if admin.IsActive {
			state = "activated"
		}
		fmt.Printf("%s admin %q (id %s)\n", state, admin.Username, admin.ID)

	case "seed":
		if *username == "" {
			logger.Fatal("seed requires -username of an existing admin to own the listings")
		}
		owner, err := adminRepo.GetByUsername(ctx, *username)
		if err != nil {
			logger.Fatalf("look up owner %q: %v", *username, err)
		}
		n, err := seed.Run(ctx, listingService, owner.ID, *validFor, logger)
		if err != nil {
			logger.Fatalf("seed listings: %v", err)
		}
		fmt.Printf("seeded %d listings\n", n)

	default:
		fmt.Printf("Unknown command: %s\n", *command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`jobboardctl - operator tasks for the job board

Usage:
  jobboardctl -cmd create-admin -username root -password <secret> -email root@example.com
  jobboardctl -cmd deactivate-admin -username alice
  jobboardctl -cmd activate-admin -username alice
  jobboardctl -cmd seed -username root [-valid-for 720h]

Configuration is read the same way as the server (JOBBOARD_* env, .env, config file).`)
}
