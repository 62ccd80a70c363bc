package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"parking-slot-control/internal/storage"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
	Long:  `List registered users and create administrator accounts.`,
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered users",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		listUsers(ctx)
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin <name> <email>",
	Short: "Create an administrator account",
	Long: `Create an administrator account. The password is read from the
--password flag or the ADMIN_PASSWORD environment variable.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		name, email := args[0], args[1]

		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("ADMIN_PASSWORD")
		}
		if password == "" {
			fmt.Fprintln(os.Stderr, "Password required: use --password or set ADMIN_PASSWORD")
			os.Exit(1)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("Failed to hash password", "error", err)
			os.Exit(1)
		}

		user, err := provider.CreateUser(ctx, storage.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         storage.RoleAdmin,
			Verified:     true,
		})
		if err != nil {
			slog.Error("Failed to create admin", "email", email, "error", err)
			os.Exit(1)
		}

		fmt.Printf("Admin %s (%s) created with id %d\n", user.Name, user.Email, user.ID)
	},
}

func listUsers(ctx context.Context) {
	page := 1
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tVERIFIED\tCREATED AT")

	var total int64
	for {
		result, err := provider.ListUsers(ctx, storage.ListParams{Page: page, Limit: 100})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list users: %v\n", err)
			os.Exit(1)
		}
		total = result.TotalItems

		for _, user := range result.Data {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%s\n",
				user.ID,
				user.Name,
				user.Email,
				user.Role,
				user.Verified,
				user.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}

		if page >= result.TotalPages {
			break
		}
		page++
	}

	w.Flush()
	fmt.Printf("\nTotal users: %d\n", total)
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(listUsersCmd)
	usersCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().String("password", "", "password for the new admin account")
}
