// Command form-builder edits an admin's intake form from the terminal.
//
//	form-builder -admin <uid> -op show
//	form-builder -admin <uid> -op add
//	form-builder -admin <uid> -op label -index 5 -value "Room"
package main

import (
	"context"
	"encoding/json"
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
		adminID string
		op      string
		index   int
		value   string
	)
	flag.StringVar(&adminID, "admin", "", "admin uid that owns the form (required)")
	flag.StringVar(&op, "op", "show", "show, add, remove, label, type, required, condition-enabled or condition-label")
	flag.IntVar(&index, "index", -1, "field position for field operations")
	flag.StringVar(&value, "value", "", "new value for label, type, required and condition operations")
	flag.Parse()

	if adminID == "" {
		log.Fatal("-admin is required")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal(err)
	}
	store := services.NewGormStore(db)
	if err := store.AutoMigrate(); err != nil {
		log.Fatalf("migrate tables: %v", err)
	}
	forms := services.NewFormStructureService(store, nil)

	ctx := context.Background()
	structure, err := forms.GetFormStructure(ctx, adminID)
	if err != nil {
		log.Fatalf("load form: %v", err)
	}

	if op != "show" {
		structure, err = services.ApplyFormEdit(structure, services.FormEdit{Op: op, Index: index, Value: value})
		if err != nil {
			log.Fatal(err)
		}
		if err := forms.SaveFormStructure(ctx, adminID, structure); err != nil {
			log.Fatalf("save form: %v", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(structure); err != nil {
		log.Fatal(err)
	}
	if op != "show" {
		fmt.Fprintln(os.Stderr, "Form structure saved.")
	}
}
