package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sukalov/karaokesync/internal/config"
	"github.com/sukalov/karaokesync/internal/db"
	"github.com/sukalov/karaokesync/internal/logger"
	"github.com/sukalov/karaokesync/internal/lyrics/timeline"
)

func main() {
	var (
		songID  string
		title   string
		artist  string
		dryRun  bool
		tuning  string
		verbose bool
	)

	flag.StringVar(&songID, "id", "", "Song id (defaults to the file name without extension)")
	flag.StringVar(&title, "title", "", "Song title (defaults to the song id)")
	flag.StringVar(&artist, "artist", "", "Artist name")
	flag.BoolVar(&dryRun, "dry-run", false, "Parse and report without writing to the songbook")
	flag.StringVar(&tuning, "tuning", os.Getenv("KARAOKESYNC_TUNING"), "Tuning YAML used for the parse report")
	flag.BoolVar(&verbose, "v", false, "Print every parsed line")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file.lrc>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "Example: %s -artist \"Queen\" -title \"Bohemian Rhapsody\" bohemian.lrc\n", os.Args[0])
		os.Exit(1)
	}

	path := args[0]
	if songID == "" {
		songID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if title == "" {
		title = songID
	}

	fmt.Println("=== LRC Import ===")
	fmt.Printf("File: %s\n", path)
	fmt.Printf("Song id: %s\n", songID)
	fmt.Println()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Error reading file: %v", err)
	}

	t, err := config.LoadTuning(tuning)
	if err != nil {
		log.Fatalf("Error loading tuning: %v", err)
	}

	report := timeline.Parse(string(data), t.TimelineOptions())
	printReport(report, verbose)

	if len(report.Timeline) == 0 {
		log.Fatalf("No timed lines found in %s", path)
	}
	if dryRun {
		fmt.Println("=== DRY RUN, NOTHING SAVED ===")
		return
	}

	env, err := config.LoadEnv([]string{"TURSO_DATABASE_URL", "TURSO_AUTH_TOKEN"})
	if err != nil {
		log.Fatalf("Error loading env: %v", err)
	}

	ctx := context.Background()
	database, err := db.Open(ctx, env["TURSO_DATABASE_URL"], env["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Error opening songbook: %v", err)
	}
	defer db.Close(database)

	songbook := db.NewSongbook(database)
	if err := songbook.Migrate(ctx); err != nil {
		log.Fatalf("Error migrating songbook: %v", err)
	}

	song := db.Song{
		ID:     songID,
		Title:  title,
		Artist: sql.NullString{String: artist, Valid: artist != ""},
		LRC:    string(data),
	}
	if err := songbook.Save(ctx, song); err != nil {
		logger.Error(fmt.Sprintf("Error saving lyrics\nSong: %s\nError: %v", songID, err))
		log.Fatalf("Error saving lyrics: %v", err)
	}
	logger.Success(fmt.Sprintf("Lyrics imported\nSong: %s\nLines: %d\nDegraded: %d",
		db.FormatSongName(song), len(report.Timeline), len(report.Degraded())))
	logger.Flush()

	fmt.Println("=== IMPORT COMPLETED SUCCESSFULLY ===")
}

func printReport(report timeline.Report, verbose bool) {
	fmt.Printf("Lines: %d\n", len(report.Timeline))
	fmt.Printf("Duration: %dms\n", report.Timeline.Duration())
	fmt.Printf("Dropped source lines: %d\n", report.Dropped)

	for _, res := range report.Degraded() {
		fmt.Printf("  degraded at %dms: %q (%v)\n", res.Line.StartTime, res.Line.OriginalText, res.Err)
	}

	if !verbose {
		fmt.Println()
		return
	}
	for _, line := range report.Timeline {
		fmt.Printf("  [%6d-%6d] %s", line.StartTime, line.EndTime, line.OriginalText)
		if line.HasTranslation() {
			fmt.Printf(" / %s", line.TranslationText)
		}
		fmt.Println()
	}
	fmt.Println()
}
