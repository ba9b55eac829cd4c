package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bookden/internal/facets"
	"bookden/internal/models"
)

var (
	filterStatus string
	filterGenre  string
	filterAuthor string
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse your collection",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books, optionally filtered by status, genre, and author",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newSession(cmd.Context())
		if err != nil {
			return err
		}

		sel := facets.Selection{Status: filterStatus, Genre: filterGenre, Author: filterAuthor}
		books := ctrl.Filter(sel)
		if len(books) == 0 {
			fmt.Println("No books match these filters.")
			return nil
		}

		fmt.Printf("Found %d books:\n\n", len(books))
		for i := range books {
			printBook(&books[i])
			fmt.Println(strings.Repeat("-", 50))
		}
		return nil
	},
}

var libraryFacetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Show the selectable filter values derived from your collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		f := ctrl.Facets()
		fmt.Printf("Statuses: %s\n", strings.Join(f.Statuses, ", "))
		fmt.Printf("Genres:   %s\n", strings.Join(f.Genres, ", "))
		fmt.Printf("Authors:  %s\n", strings.Join(f.Authors, ", "))
		return nil
	},
}

var libraryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reading stats for the current year",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		year := time.Now().Format("2006")
		st := ctrl.Stats(year)
		fmt.Printf("Books in collection: %d\n", st.TotalBooks)
		fmt.Printf("Read in %s: %d\n", year, st.BooksReadThisYear)
		if st.CurrentBook != nil {
			fmt.Printf("Currently reading: %s (%s)\n", st.CurrentBook.Title, st.CurrentBook.AuthorName())
		}
		if st.NextBookInSaga != nil {
			fmt.Printf("Next in saga: %s (#%d of %s)\n",
				st.NextBookInSaga.Title, *st.NextBookInSaga.IndexInSaga, st.NextBookInSaga.Saga.Name)
		}
		return nil
	},
}

func printBook(b *models.Book) {
	fmt.Printf("ID: %d\n", b.ID)
	fmt.Printf("Title: %s\n", b.Title)
	fmt.Printf("Author: %s\n", b.AuthorName())
	fmt.Printf("Status: %s\n", b.Status)
	if b.Rating > 0 {
		fmt.Printf("Rating: %s\n", strings.Repeat("*", b.Rating))
	}
	if len(b.Genres) > 0 {
		names := make([]string, len(b.Genres))
		for i, g := range b.Genres {
			names[i] = g.Name
		}
		fmt.Printf("Genres: %s\n", strings.Join(names, ", "))
	}
	if b.Saga != nil {
		if b.IndexInSaga != nil {
			fmt.Printf("Saga: %s (#%d)\n", b.Saga.Name, *b.IndexInSaga)
		} else {
			fmt.Printf("Saga: %s\n", b.Saga.Name)
		}
	}
	if b.StartDate != nil {
		fmt.Printf("Started: %s\n", *b.StartDate)
	}
	if b.EndDate != nil {
		fmt.Printf("Finished: %s\n", *b.EndDate)
	}
}

func init() {
	libraryListCmd.Flags().StringVar(&filterStatus, "status", facets.All, "filter by status (PENDING, READING, FINISHED)")
	libraryListCmd.Flags().StringVar(&filterGenre, "genre", facets.All, "filter by genre")
	libraryListCmd.Flags().StringVar(&filterAuthor, "author", facets.All, "filter by author")

	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryFacetsCmd)
	libraryCmd.AddCommand(libraryStatsCmd)
	rootCmd.AddCommand(libraryCmd)
}
