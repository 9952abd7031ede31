package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/benchwise/labstock/internal/config"
	"github.com/benchwise/labstock/internal/database"
	"github.com/benchwise/labstock/internal/grid"
	"github.com/benchwise/labstock/internal/models"
	"github.com/benchwise/labstock/internal/services"
)

// The seeder loads a materials CSV through the same import pipeline the API
// uses, creates a demo box layout, and fills the box with the valid rows.
// It is meant for development databases, not production ones.
func main() {
	// Command line flags
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	file := flag.String("file", "", "Materials CSV file to import")
	boxName := flag.String("box", "Demo Box A", "Name of the demo box to create")
	boxRows := flag.Int("rows", 9, "Demo box rows")
	boxCols := flag.Int("cols", 9, "Demo box columns")
	flag.Parse()

	if *file == "" {
		log.Fatal("-file is required")
	}

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	rows, err := readCSVFile(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	pipeline := services.NewImportPipeline()
	if err := pipeline.Parse(rows); err != nil {
		log.Fatalf("Failed to parse %s: %v", *file, err)
	}

	parsed := pipeline.Rows()
	valid := 0
	for _, row := range parsed {
		if row.IsValid {
			valid++
		}
		for _, w := range row.Warnings {
			log.Printf("row %d: %s", row.RowNumber, w)
		}
	}
	log.Printf("Parsed %d rows (%d valid)", len(parsed), valid)

	materials, err := pipeline.Commit()
	if err != nil {
		log.Fatalf("Failed to commit pipeline: %v", err)
	}

	if *dryRun {
		for _, m := range materials {
			log.Printf("[dry-run] would create %s (%s, %.2f %s)",
				m.Name, m.Type, m.Stock.CurrentAmount, m.Stock.Unit)
		}
		log.Printf("[dry-run] would create box %q (%dx%d)", *boxName, *boxRows, *boxCols)
		return
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	box, err := models.NewStorageBox(*boxName,
		models.BoxLayout{Rows: *boxRows, Columns: *boxCols, LabelStyle: grid.StyleAlnum},
		models.BoxLocation{Freezer: "Freezer 1", Shelf: "Shelf 1"},
	)
	if err != nil {
		log.Fatalf("Invalid box layout: %v", err)
	}
	box.TemperatureClass = "-20"

	if box, err = db.CreateBox(ctx, box); err != nil {
		log.Fatalf("Failed to create box: %v", err)
	}
	log.Printf("Created box %q (id %d, capacity %d)", box.Name, box.ID, box.Capacity())

	free := box.NextFreePositions(len(materials))
	createdCount := 0
	for i := range materials {
		m, err := db.CreateMaterial(ctx, &materials[i])
		if err != nil {
			log.Printf("Failed to create material %q: %v", materials[i].Name, err)
			continue
		}
		createdCount++

		if i >= len(free) {
			continue
		}
		mp := models.MaterialPosition{
			MaterialID:   m.ID,
			MaterialName: m.Name,
			MaterialType: m.Type,
			Amount:       m.Stock.CurrentAmount,
			Unit:         m.Stock.Unit,
		}
		if err := box.SetPositionIfVacant(free[i], mp); err != nil {
			log.Printf("Failed to place %q at %s: %v", m.Name, free[i], err)
			continue
		}
		if err := db.SaveBoxPosition(ctx, box.ID, free[i], box.Position(free[i])); err != nil {
			log.Printf("Failed to save position %s: %v", free[i], err)
		}
	}

	occ := box.Occupancy()
	log.Printf("Created %d materials, box occupancy %d/%d (%.1f%%)",
		createdCount, occ.Occupied, occ.Capacity, occ.PercentFull)
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		rows = append(rows, record)
	}

	if len(rows) > 0 {
		log.Printf("Headers: %s", strings.Join(rows[0], ", "))
	}
	return rows, nil
}
