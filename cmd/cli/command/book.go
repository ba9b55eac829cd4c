package command

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bookden/internal/collection"
	"bookden/internal/models"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Manage books and their reading lifecycle",
}

var bookShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, id, err := sessionWithID(cmd, args[0])
		if err != nil {
			return err
		}
		book, ok := ctrl.Store().Book(id)
		if !ok {
			return fmt.Errorf("no book with id %d in your collection", id)
		}
		printBook(&book)
		return nil
	},
}

var (
	addTitle  string
	addAuthor string
	addCover  string
	addGenres []string
)

var bookAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book manually (see 'bookden search' to add from the provider)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		draft := &models.Book{
			Title:  addTitle,
			Status: models.StatusPending,
			Genres: []models.Genre{},
		}
		if addAuthor != "" {
			draft.Author = &models.Author{Name: addAuthor}
		}
		if addCover != "" {
			draft.CoverURL = &addCover
		}
		for _, g := range addGenres {
			if g = strings.TrimSpace(g); g != "" {
				draft.Genres = append(draft.Genres, models.Genre{Name: g})
			}
		}
		created, err := ctrl.AddBook(cmd.Context(), draft)
		if err != nil {
			return err
		}
		fmt.Printf("Added %q with id %d.\n", created.Title, created.ID)
		return nil
	},
}

var bookStartCmd = &cobra.Command{
	Use:   "start [id]",
	Short: "Start reading a pending book (sets today as start date)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, id, err := sessionWithID(cmd, args[0])
		if err != nil {
			return err
		}
		updated, err := ctrl.StartReading(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("Now reading %q (started %s).\n", updated.Title, *updated.StartDate)
		return nil
	},
}

var bookFinishCmd = &cobra.Command{
	Use:   "finish [id] [rating]",
	Short: "Finish a book you are reading, with a rating from 1 to 5",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, id, err := sessionWithID(cmd, args[0])
		if err != nil {
			return err
		}
		rating, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid rating: %w", err)
		}
		updated, err := ctrl.FinishReading(cmd.Context(), id, rating)
		if err != nil {
			return err
		}
		fmt.Printf("Finished %q on %s, rated %s.\n",
			updated.Title, *updated.EndDate, strings.Repeat("*", updated.Rating))
		return nil
	},
}

var (
	editTitle  string
	editAuthor string
	editStatus string
	editRating int
	editCover  string
	editGenres []string
	editSaga   int64
	editIndex  int
	editStart  string
	editEnd    string
)

var bookEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit any field of a book directly",
	Long: `Edit a book. Only the flags you pass change; everything else keeps its
current value. This is the escape hatch around the start/finish triggers:
status, rating, and dates can be set to anything, and no dates are derived
for you. Use --saga 0 to detach the book from its saga.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, id, err := sessionWithID(cmd, args[0])
		if err != nil {
			return err
		}
		current, ok := ctrl.Store().Book(id)
		if !ok {
			return fmt.Errorf("no book with id %d in your collection", id)
		}

		replacement := current.Clone()
		flags := cmd.Flags()
		if flags.Changed("title") {
			replacement.Title = editTitle
		}
		if flags.Changed("author") {
			if editAuthor == "" {
				replacement.Author = nil
			} else {
				replacement.Author = &models.Author{Name: editAuthor}
			}
		}
		if flags.Changed("status") {
			replacement.Status = strings.ToUpper(editStatus)
		}
		if flags.Changed("rating") {
			replacement.Rating = editRating
		}
		if flags.Changed("cover") {
			if editCover == "" {
				replacement.CoverURL = nil
			} else {
				replacement.CoverURL = &editCover
			}
		}
		if flags.Changed("genres") {
			replacement.Genres = []models.Genre{}
			for _, g := range editGenres {
				if g = strings.TrimSpace(g); g != "" {
					replacement.Genres = append(replacement.Genres, models.Genre{Name: g})
				}
			}
		}
		if flags.Changed("saga") {
			if editSaga == 0 {
				replacement.Saga = nil
				replacement.IndexInSaga = nil
			} else {
				summary, ok := ctrl.Store().Saga(editSaga)
				if !ok {
					return fmt.Errorf("no saga with id %d", editSaga)
				}
				replacement.Saga = &models.SagaRef{ID: summary.ID, Name: summary.Name}
			}
		}
		if flags.Changed("index") {
			if replacement.Saga == nil {
				return fmt.Errorf("--index only makes sense together with a saga")
			}
			replacement.IndexInSaga = &editIndex
		}
		if flags.Changed("start-date") {
			replacement.StartDate = optionalString(editStart)
		}
		if flags.Changed("end-date") {
			replacement.EndDate = optionalString(editEnd)
		}

		updated, err := ctrl.EditBook(cmd.Context(), id, replacement)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %q.\n", updated.Title)
		return nil
	},
}

var bookCoverCmd = &cobra.Command{
	Use:   "cover [id] [file]",
	Short: "Upload a cover image for a book",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, id, err := sessionWithID(cmd, args[0])
		if err != nil {
			return err
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		updated, err := ctrl.UploadCover(cmd.Context(), id, filepath.Base(args[1]), f)
		if err != nil {
			return err
		}
		fmt.Printf("Cover for %q set to %s.\n", updated.Title, *updated.CoverURL)
		return nil
	},
}

var bookDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a book from your collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, id, err := sessionWithID(cmd, args[0])
		if err != nil {
			return err
		}
		if err := ctrl.DeleteBook(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Book %d deleted.\n", id)
		return nil
	},
}

func sessionWithID(cmd *cobra.Command, rawID string) (*collection.Controller, int64, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid id %q", rawID)
	}
	c, err := newSession(cmd.Context())
	if err != nil {
		return nil, 0, err
	}
	return c, id, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func init() {
	bookAddCmd.Flags().StringVar(&addTitle, "title", "", "book title (required)")
	bookAddCmd.Flags().StringVar(&addAuthor, "author", "", "author display name")
	bookAddCmd.Flags().StringVar(&addCover, "cover", "", "cover URL")
	bookAddCmd.Flags().StringSliceVar(&addGenres, "genres", nil, "comma-separated genre names")
	bookAddCmd.MarkFlagRequired("title")

	bookEditCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	bookEditCmd.Flags().StringVar(&editAuthor, "author", "", "new author (empty clears)")
	bookEditCmd.Flags().StringVar(&editStatus, "status", "", "new status (PENDING, READING, FINISHED)")
	bookEditCmd.Flags().IntVar(&editRating, "rating", 0, "rating 0-5 (0 means unrated)")
	bookEditCmd.Flags().StringVar(&editCover, "cover", "", "cover URL (empty clears)")
	bookEditCmd.Flags().StringSliceVar(&editGenres, "genres", nil, "comma-separated genre names (replaces the set)")
	bookEditCmd.Flags().Int64Var(&editSaga, "saga", 0, "saga id (0 detaches)")
	bookEditCmd.Flags().IntVar(&editIndex, "index", 0, "position within the saga")
	bookEditCmd.Flags().StringVar(&editStart, "start-date", "", "start date YYYY-MM-DD (empty clears)")
	bookEditCmd.Flags().StringVar(&editEnd, "end-date", "", "end date YYYY-MM-DD (empty clears)")

	bookCmd.AddCommand(bookShowCmd)
	bookCmd.AddCommand(bookAddCmd)
	bookCmd.AddCommand(bookStartCmd)
	bookCmd.AddCommand(bookFinishCmd)
	bookCmd.AddCommand(bookEditCmd)
	bookCmd.AddCommand(bookCoverCmd)
	bookCmd.AddCommand(bookDeleteCmd)
	rootCmd.AddCommand(bookCmd)
}
