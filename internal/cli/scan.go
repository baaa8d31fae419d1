package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/koreader-utils/quotescan/internal/config"
	"github.com/koreader-utils/quotescan/internal/entities"
	"github.com/koreader-utils/quotescan/internal/harvest"
	"github.com/koreader-utils/quotescan/internal/scanner"
	"github.com/koreader-utils/quotescan/internal/statistics"
	"github.com/koreader-utils/quotescan/internal/store"
)

// ScanCommand harvests highlights from a library directory into the store.
type ScanCommand struct {
	RootDir   string
	StorePath string
	MaxDepth  int
	Colors    string
	StatsDB   string
	Verbose   bool
}

// NewScanCommand creates a new ScanCommand
func NewScanCommand() *ScanCommand {
	return &ScanCommand{}
}

// ParseFlags parses command line flags
func (cmd *ScanCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)

	fs.StringVar(&cmd.RootDir, "root", "", "Library root directory containing book-sidecar folders")
	fs.StringVar(&cmd.StorePath, "store", config.DefaultStorePath, "Path of the quote store file to write")
	fs.IntVar(&cmd.MaxDepth, "max-depth", config.DefaultMaxDepth, "Directory recursion bound")
	fs.StringVar(&cmd.Colors, "colors", "", "Comma-separated highlight colors to accept (default: all)")
	fs.StringVar(&cmd.StatsDB, "stats-db", "", "Optional statistics.sqlite3 used to fill in missing authors")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every harvested quote")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s scan [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Harvest book highlights from annotation sidecars into a quote store.\n\n")
		fmt.Fprintf(os.Stderr, "This command:\n")
		fmt.Fprintf(os.Stderr, "  1. Walks the library root looking for .sdr sidecar folders\n")
		fmt.Fprintf(os.Stderr, "  2. Extracts and deduplicates highlight and note text\n")
		fmt.Fprintf(os.Stderr, "  3. Rewrites the quote store file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s scan -root /mnt/books\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s scan -root /mnt/books -colors red,yellow\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s scan -root /mnt/books -store ~/quotes.lua -verbose\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the scan command
func (cmd *ScanCommand) Run() error {
	fmt.Println("📚 Quote harvest")
	fmt.Println("================")

	if cmd.RootDir == "" {
		return fmt.Errorf("library root is required (use -root)")
	}

	absRoot, err := filepath.Abs(cmd.RootDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for root: %w", err)
	}

	absStore, err := filepath.Abs(cmd.StorePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for store: %w", err)
	}

	fmt.Printf("📁 Library: %s\n", absRoot)
	fmt.Printf("📁 Store:   %s\n", absStore)

	sc := scanner.New()
	sc.SetProgressFunc(func(folder string) {
		fmt.Printf("🔍 Scanning %s\n", folder)
	})
	if cmd.StatsDB != "" {
		sc.SetStatistics(statistics.NewReader(cmd.StatsDB))
	}

	opts := entities.ScanOptions{
		RootDir:  absRoot,
		MaxDepth: cmd.MaxDepth,
		Colors:   splitColors(cmd.Colors),
	}

	st := store.New(absStore)
	pipeline := harvest.NewPipeline(sc, st, opts)

	result, err := pipeline.Harvest()
	if err != nil {
		if result.Found > 0 {
			return fmt.Errorf("found %d quotes but failed to save: %w", result.Found, err)
		}
		return err
	}

	if result.Found == 0 {
		fmt.Println("\nℹ️  No quotes found")
		return nil
	}

	if cmd.Verbose {
		records, err := st.Load()
		if err == nil {
			fmt.Println("\n=== Harvested quotes ===")
			for _, record := range records {
				fmt.Printf("  - %s (%s)\n", record.Text, record.Book)
			}
		}
	}

	fmt.Printf("\n✅ Saved %d quotes to %s\n", result.Found, absStore)
	return nil
}

func splitColors(raw string) []string {
	if raw == "" {
		return nil
	}
	var colors []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			colors = append(colors, trimmed)
		}
	}
	return colors
}
