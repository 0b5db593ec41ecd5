package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/Strob0t/StayForge/internal/adapter/postgres"
	"github.com/Strob0t/StayForge/internal/config"
	"github.com/Strob0t/StayForge/internal/domain/backoffice"
	"github.com/Strob0t/StayForge/internal/port/database"
)

// runAdmin dispatches admin subcommands (seed-superadmin,
// reset-password, list-users).
func runAdmin(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	switch args[0] {
	case "seed-superadmin":
		return runAdminSeedSuperadmin(args[1:])
	case "reset-password":
		return runAdminResetPassword(args[1:])
	case "list-users":
		return runAdminListUsers(args[1:])
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", args[0])
	}
}

func printAdminHelp() {
	fmt.Fprintf(os.Stderr, `Usage: stayforge admin <command> [options]

Commands:
  seed-superadmin   Create the initial superadmin account
  reset-password    Reset a backoffice user's password
  list-users        List all backoffice users
  help              Show this help message

Examples:
  stayforge admin seed-superadmin --email root@example.com --name "Root"
  stayforge admin reset-password --email root@example.com
  stayforge admin list-users
`)
}

type adminDeps struct {
	store database.Store
	ids   *postgres.IdentityProvider
}

func loadAdminDeps() (*adminDeps, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	deps := &adminDeps{
		store: postgres.NewStore(pool),
		ids:   postgres.NewIdentityProvider(pool, cfg.Auth.BcryptCost),
	}
	return deps, pool.Close, nil
}

// runAdminSeedSuperadmin provisions the first superadmin directly,
// bypassing the caller-privilege check no account could yet satisfy.
func runAdminSeedSuperadmin(args []string) error {
	fs := flag.NewFlagSet("seed-superadmin", flag.ContinueOnError)
	email := fs.String("email", "", "account email address (required)")
	name := fs.String("name", "", "display name (required)")
	password := fs.String("password", "", "password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("--email is required")
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	pass, err := resolvePassword(*password)
	if err != nil {
		return err
	}

	deps, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	id, err := deps.ids.CreateIdentity(ctx, *email, pass)
	if err != nil {
		return fmt.Errorf("create identity: %w", err)
	}

	u := &backoffice.User{
		ID:     id.ID,
		Email:  *email,
		Name:   *name,
		Role:   backoffice.RoleSuperadmin,
		Status: backoffice.StatusActive,
	}
	if err := deps.store.CreateBackofficeUser(ctx, u); err != nil {
		if rbErr := deps.ids.DeleteIdentity(ctx, id.ID); rbErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: identity %s left orphaned: %v\n", id.ID, rbErr)
		}
		return fmt.Errorf("create profile: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Superadmin created: %s (id=%s)\n", u.Email, u.ID)
	return nil
}

func runAdminResetPassword(args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	email := fs.String("email", "", "account email address (required)")
	password := fs.String("password", "", "new password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	newPass, err := resolvePassword(*password)
	if err != nil {
		return err
	}

	deps, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := deps.ids.UpdatePassword(context.Background(), *email, newPass); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Password reset successfully for %s\n", *email)
	return nil
}

func runAdminListUsers(args []string) error {
	fs := flag.NewFlagSet("list-users", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	deps, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	users, err := deps.store.ListBackofficeUsers(context.Background())
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No backoffice users found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tSTATUS\tLAST LOGIN")
	for _, u := range users {
		last := "never"
		if u.LastLoginAt != nil {
			last = u.LastLoginAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Role, u.Status, last)
	}
	return w.Flush()
}

// resolvePassword uses the flag value when given, otherwise prompts
// twice on the terminal.
func resolvePassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	pass, err := promptPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if pass != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return pass, nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
