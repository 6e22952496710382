package main

import (
	"context"
	"log"
	"os"
	"strings"

	"sankalp/config"
	"sankalp/database"
	"sankalp/services/catalog"
)

// Imports courses from a CSV file (default Courses.csv). Courses whose
// title already exists are left untouched.
func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb(config.AppConfig)

	path := "Courses.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	courses, skipped, err := catalog.ReadCourseCSV(file)
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	log.Printf("Courses to import: %d", len(courses))

	ctx := context.Background()
	svc := catalog.NewService(database.Database.Db)

	existing, err := svc.ListCourses(ctx)
	if err != nil {
		log.Fatalf("Failed to list courses: %v", err)
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[strings.ToLower(c.Title)] = true
	}

	inserted := 0
	for _, in := range courses {
		if known[strings.ToLower(in.Title)] {
			log.Printf("Course %q exists, skipping", in.Title)
			skipped++
			continue
		}
		c, err := svc.CreateCourse(ctx, in)
		if err != nil {
			log.Printf("Error inserting course %q: %v", in.Title, err)
			continue
		}
		log.Printf("Inserted course %q (id=%d, modules=%d)", c.Title, c.ID, len(in.Modules))
		inserted++
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", inserted)
	log.Printf("Skipped: %d", skipped)
}
