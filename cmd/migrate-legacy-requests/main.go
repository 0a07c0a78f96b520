// Command migrate-legacy-requests imports exported laptop request documents,
// folding the old fixed fields into dynamic fields.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"laptop-request-api/config"
	"laptop-request-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var (
		inPath string
		dryRun bool
	)
	flag.StringVar(&inPath, "in", "", "path to the exported JSON documents (required)")
	flag.BoolVar(&dryRun, "dry-run", false, "decode and validate without writing to the database")
	flag.Parse()

	if inPath == "" {
		log.Fatal("-in is required")
	}

	f, err := os.Open(inPath)
	if err != nil {
		log.Fatalf("open %s: %v", inPath, err)
	}
	defer f.Close()

	var store services.LaptopRequestStore
	if !dryRun {
		db, err := config.InitDB()
		if err != nil {
			log.Fatal(err)
		}
		gormStore := services.NewGormStore(db)
		if err := gormStore.AutoMigrate(); err != nil {
			log.Fatalf("migrate tables: %v", err)
		}
		store = gormStore
	}

	summary, err := services.ImportLegacyRequests(context.Background(), store, f, dryRun)
	if err != nil {
		log.Fatalf("legacy import failed: %v", err)
	}

	fmt.Printf("Documents read: %d\n", summary.Read)
	fmt.Printf("Imported: %d, skipped: %d, failed: %d\n", summary.Imported, summary.Skipped, summary.Failed)
	if dryRun {
		fmt.Println("Dry run: nothing was written")
	}
}
