package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchAdd int

var searchCmd = &cobra.Command{
	Use:   "search [title]",
	Short: "Search the book provider and optionally add a result",
	Long: `Search for books by title through the backend's provider proxy. Results
are numbered; pass --add N to catalog result N as a pending book.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		title := strings.Join(args, " ")
		candidates, err := ctrl.SearchByTitle(cmd.Context(), title)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			fmt.Println("No results.")
			return nil
		}

		if searchAdd > 0 {
			if searchAdd > len(candidates) {
				return fmt.Errorf("--add %d out of range, got %d results", searchAdd, len(candidates))
			}
			created, err := ctrl.AddFromCandidate(cmd.Context(), candidates[searchAdd-1])
			if err != nil {
				return err
			}
			fmt.Printf("Added %q with id %d.\n", created.Title, created.ID)
			return nil
		}

		for i, cand := range candidates {
			authors := strings.Join(cand.VolumeInfo.Authors, ", ")
			if authors == "" {
				authors = "unknown author"
			}
			fmt.Printf("%2d. %s by %s\n", i+1, cand.VolumeInfo.Title, authors)
		}
		fmt.Println("\nRun again with --add N to catalog a result.")
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchAdd, "add", 0, "add result number N to your collection")
	rootCmd.AddCommand(searchCmd)
}
