package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ikkim/clientbook-backend/config"
	"github.com/ikkim/clientbook-backend/internal/app/repository"
	"github.com/ikkim/clientbook-backend/internal/app/service"
	"github.com/ikkim/clientbook-backend/internal/db"
	"github.com/ikkim/clientbook-backend/pkg/logger"
)

// Loads a client workbook (the export format) into the configured database.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [-y]")
	}

	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && os.Args[2] == "-y"

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "warn", Format: "console"})

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open workbook:", err)
	}
	defer file.Close()

	if !assumeYes {
		fmt.Printf("Import %s into the %s database? (yes/no): ", filePath, cfg.Database.Driver)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	conn := db.GetDB()
	importService := service.NewImportService(
		conn,
		repository.NewClientRepository(conn),
		repository.NewBenefitRepository(conn),
		repository.NewCommercialRepository(conn),
		nil,
	)

	result, err := importService.Import(context.Background(), filepath.Base(filePath), file)
	if err != nil {
		log.Fatal("Import failed:", err)
	}

	stats := result.Stats
	fmt.Println("Import completed!")
	fmt.Printf("Clients:    %d created, %d updated\n", stats.ClientsCreated, stats.ClientsUpdated)
	fmt.Printf("Benefits:   %d created, %d updated\n", stats.BenefitsCreated, stats.BenefitsUpdated)
	fmt.Printf("Commercial: %d created, %d updated\n", stats.CommercialCreated, stats.CommercialUpdated)

	if len(stats.Errors) > 0 {
		fmt.Printf("%d row(s) failed:\n", len(stats.Errors))
		for _, msg := range stats.Errors {
			fmt.Println("  " + msg)
		}
	}

	if len(result.ErrorsFile) > 0 {
		out := filepath.Join(filepath.Dir(filePath), result.ErrorsFilename)
		if err := os.WriteFile(out, result.ErrorsFile, 0o644); err != nil {
			log.Fatal("Failed to write errors workbook:", err)
		}
		fmt.Printf("Failed rows written to %s\n", out)
	}
}
