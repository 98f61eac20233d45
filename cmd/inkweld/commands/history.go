package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// HistoryCmd shows recent build records from the project-local history store.
type HistoryCmd struct {
	Input string `short:"i" name:"input" default:"." help:"Project directory."`
	Limit int    `short:"n" name:"limit" default:"10" help:"Maximum records to show."`
}

func (h *HistoryCmd) Run(_ *Global, _ *CLI) error {
	root, err := filepath.Abs(h.Input)
	if err != nil {
		return fmt.Errorf("resolve input directory: %w", err)
	}

	store := openHistory(root)
	if store == nil {
		return fmt.Errorf("no build history for %s", root)
	}
	defer func() { _ = store.Close() }()

	records, err := store.List(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No builds recorded yet.")
		return nil
	}

	fmt.Printf("%-36s %-20s %-8s %-9s %s\n", "ID", "TIME", "STATUS", "SECTIONS", "DURATION")
	for _, r := range records {
		fmt.Printf("%-36s %-20s %-8s %-9d %dms\n",
			r.ID,
			r.Timestamp.Local().Format(time.DateTime),
			r.Status,
			r.Outputs.SectionCount,
			r.Duration)
	}
	return nil
}
