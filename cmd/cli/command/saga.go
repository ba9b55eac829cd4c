package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sagaCmd = &cobra.Command{
	Use:   "saga",
	Short: "Manage sagas (multi-volume works)",
}

var sagaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your sagas",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		sagas := ctrl.Store().Sagas()
		if len(sagas) == 0 {
			fmt.Println("No sagas yet.")
			return nil
		}
		fmt.Printf("Found %d sagas:\n\n", len(sagas))
		for _, s := range sagas {
			fmt.Printf("ID: %d\n", s.ID)
			fmt.Printf("Name: %s\n", s.Name)
			fmt.Println(strings.Repeat("-", 50))
		}
		return nil
	},
}

var sagaShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saga with its books in reading order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, id, err := sessionWithID(cmd, args[0])
		if err != nil {
			return err
		}
		saga, err := ctrl.SagaDetail(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("Saga: %s (%d books)\n", saga.Name, len(saga.Books))
		fmt.Println(strings.Repeat("-", 50))
		for i := range saga.Books {
			b := &saga.Books[i]
			if b.IndexInSaga != nil {
				fmt.Printf("#%d  %s [%s]\n", *b.IndexInSaga, b.Title, b.Status)
			} else {
				fmt.Printf("    %s [%s]\n", b.Title, b.Status)
			}
		}
		return nil
	},
}

var (
	sagaName  string
	sagaCover string
)

var sagaCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new saga",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		created, err := ctrl.CreateSaga(cmd.Context(), sagaName, optionalString(sagaCover))
		if err != nil {
			return err
		}
		fmt.Printf("Created saga %q with id %d.\n", created.Name, created.ID)
		return nil
	},
}

var sagaEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Rename a saga or change its cover",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, id, err := sessionWithID(cmd, args[0])
		if err != nil {
			return err
		}
		current, err := ctrl.SagaDetail(cmd.Context(), id)
		if err != nil {
			return err
		}
		name := current.Name
		if cmd.Flags().Changed("name") {
			name = sagaName
		}
		cover := current.CoverURL
		if cmd.Flags().Changed("cover") {
			cover = optionalString(sagaCover)
		}
		updated, err := ctrl.EditSaga(cmd.Context(), id, name, cover)
		if err != nil {
			return err
		}
		fmt.Printf("Saved saga %q.\n", updated.Name)
		return nil
	},
}

var sagaDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saga (its books stay, detached)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, id, err := sessionWithID(cmd, args[0])
		if err != nil {
			return err
		}
		if err := ctrl.DeleteSaga(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Saga %d deleted.\n", id)
		return nil
	},
}

func init() {
	sagaCreateCmd.Flags().StringVar(&sagaName, "name", "", "saga name (required)")
	sagaCreateCmd.Flags().StringVar(&sagaCover, "cover", "", "cover URL")
	sagaCreateCmd.MarkFlagRequired("name")

	sagaEditCmd.Flags().StringVar(&sagaName, "name", "", "new name")
	sagaEditCmd.Flags().StringVar(&sagaCover, "cover", "", "new cover URL (empty clears)")

	sagaCmd.AddCommand(sagaListCmd)
	sagaCmd.AddCommand(sagaShowCmd)
	sagaCmd.AddCommand(sagaCreateCmd)
	sagaCmd.AddCommand(sagaEditCmd)
	sagaCmd.AddCommand(sagaDeleteCmd)
	rootCmd.AddCommand(sagaCmd)
}
