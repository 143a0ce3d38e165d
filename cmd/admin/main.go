package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"brgyalert/backend/internal/account"
	"brgyalert/backend/internal/config"
	"brgyalert/backend/internal/models"
	"brgyalert/backend/internal/storage"
)

const usage = `Usage: admin <command> [args]

Commands:
  create-admin <email> <name> <password> [role]   create a staff account (default role ADMIN)
  set-role <email> <role>                         change a user's role
  reset-password <email> <password>               set a new password
  deactivate <email>                              block sign-in
  activate <email>                                allow sign-in again
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := storage.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// No redis, sessions or rate limiting needed for the CLI
	svc := account.NewService(storage.NewStorageService(db, nil), nil, nil)

	if err := run(context.Background(), svc, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes one CLI command. Every change is audited with a null actor.
func run(ctx context.Context, svc *account.Service, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	switch command := args[0]; command {
	case "create-admin":
		if len(args) < 4 || len(args) > 5 {
			return fmt.Errorf("usage: admin create-admin <email> <name> <password> [role]")
		}
		role := string(models.RoleAdmin)
		if len(args) == 5 {
			role = args[4]
		}
		user, err := svc.Provision(ctx, account.ProvisionInput{
			Email:    args[1],
			Name:     args[2],
			Password: args[3],
			Role:     role,
		})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		fmt.Fprintf(out, "User %s created with role %s (id %s).\n", user.Email, user.Role, user.ID)

	case "set-role":
		if len(args) != 3 {
			return fmt.Errorf("usage: admin set-role <email> <role>")
		}
		user, err := svc.SystemSetRole(ctx, args[1], args[2])
		if err != nil {
			return fmt.Errorf("error setting role: %w", err)
		}
		fmt.Fprintf(out, "User %s is now %s.\n", user.Email, user.Role)

	case "reset-password":
		if len(args) != 3 {
			return fmt.Errorf("usage: admin reset-password <email> <password>")
		}
		if err := svc.SystemResetPassword(ctx, args[1], args[2]); err != nil {
			return fmt.Errorf("error resetting password: %w", err)
		}
		fmt.Fprintf(out, "Password for %s has been reset.\n", args[1])

	case "deactivate", "activate":
		if len(args) != 2 {
			return fmt.Errorf("usage: admin %s <email>", command)
		}
		status := models.UserActive
		if command == "deactivate" {
			status = models.UserInactive
		}
		user, err := svc.SystemSetStatus(ctx, args[1], status)
		if err != nil {
			return fmt.Errorf("error updating status: %w", err)
		}
		fmt.Fprintf(out, "User %s is now %s.\n", user.Email, user.Status)

	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}
	return nil
}
