package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"

	"laptop-request-api/models"
)

// LegacyImportSummary reports the outcome of a legacy import run.
type LegacyImportSummary struct {
	Read     int
	Imported int
	Skipped  int
	Failed   int
}

// ImportLegacyRequests reads exported request documents and stores each one
// in the dynamic-field shape. The input is either a JSON array of documents
// or an object keyed by document id. Documents that do not decode into a
// valid record are skipped and logged.
func ImportLegacyRequests(ctx context.Context, store LaptopRequestStore, r io.Reader, dryRun bool) (LegacyImportSummary, error) {
	var summary LegacyImportSummary

	docs, err := readLegacyDocuments(r)
	if err != nil {
		return summary, err
	}

	for _, doc := range docs {
		summary.Read++

		row, err := models.DecodeLegacyDocument(doc)
		if err != nil {
			log.Printf("legacy import: skipping %v: %v", doc["id"], err)
			summary.Skipped++
			continue
		}
		if row.Status == "" {
			row.Status = string(models.StatusCheckedOut)
		}
		if _, err := models.DecodeLaptopRequest(row); err != nil {
			log.Printf("legacy import: skipping %v: %v", doc["id"], err)
			summary.Skipped++
			continue
		}

		if dryRun {
			summary.Imported++
			continue
		}
		if err := store.CreateLaptopRequest(ctx, &row); err != nil {
			log.Printf("legacy import: failed to store %s: %v", row.ID, err)
			summary.Failed++
			continue
		}
		summary.Imported++
	}

	return summary, nil
}

func readLegacyDocuments(r io.Reader) ([]map[string]interface{}, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read legacy export: %w", err)
	}

	var list []map[string]interface{}
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var byID map[string]map[string]interface{}
	if err := json.Unmarshal(raw, &byID); err != nil {
		return nil, errors.New("legacy export must be a JSON array or an object keyed by id")
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		doc := byID[id]
		if doc == nil {
			doc = map[string]interface{}{}
		}
		if _, ok := doc["id"]; !ok {
			doc["id"] = id
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
