package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/koreader-utils/quotescan/internal/config"
	"github.com/koreader-utils/quotescan/internal/store"
)

// RandomCommand prints one random quote from the store.
type RandomCommand struct {
	StorePath string
}

// NewRandomCommand creates a new RandomCommand
func NewRandomCommand() *RandomCommand {
	return &RandomCommand{}
}

// ParseFlags parses command line flags
func (cmd *RandomCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("random", flag.ExitOnError)

	fs.StringVar(&cmd.StorePath, "store", config.DefaultStorePath, "Path of the quote store file to read")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s random [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print one random quote from the harvested store.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the random command
func (cmd *RandomCommand) Run() error {
	st := store.New(cmd.StorePath)

	record, err := st.Random()
	if err != nil {
		if errors.Is(err, store.ErrEmpty) {
			fmt.Println("ℹ️  No quotes harvested yet. Run 'scan' first.")
			return nil
		}
		return fmt.Errorf("failed to read quote store: %w", err)
	}

	fmt.Printf("\n“%s”\n", record.Text)
	switch {
	case record.Book != "" && record.Author != "":
		fmt.Printf("    — %s, %s\n", record.Author, record.Book)
	case record.Book != "":
		fmt.Printf("    — %s\n", record.Book)
	case record.Author != "":
		fmt.Printf("    — %s\n", record.Author)
	}
	return nil
}
