package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"designhub/internal/database"
	"designhub/internal/models"
	"designhub/internal/store"
)

type grantAdminOptions struct {
	email  string
	actor  string
	reason string
}

func newGrantAdminCmd() *cobra.Command {
	opts := &grantAdminOptions{}

	cmd := &cobra.Command{
		Use:   "grant-admin",
		Short: "Grant the admin role to an existing user",
		Long: "Grant the admin role to the user with the given email. The grant is " +
			"recorded in the role audit trail together with the actor and reason. " +
			"Granting a role the user already holds is a no-op.",
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrantAdmin(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "Email of the user to promote")
	cmd.Flags().StringVar(&opts.actor, "actor", "", "Who is performing the grant")
	cmd.Flags().StringVar(&opts.reason, "reason", "", "Why the grant is made")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func (o *grantAdminOptions) validate() error {
	if !strings.Contains(o.email, "@") {
		return fmt.Errorf("--email must be an email address, got %q", o.email)
	}
	if strings.TrimSpace(o.actor) == "" {
		return errors.New("--actor must not be blank")
	}
	return nil
}

func runGrantAdmin(cmd *cobra.Command, opts *grantAdminOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	granted, err := database.GrantRole(cmd.Context(), db, opts.email, models.RoleAdmin, opts.actor, opts.reason)
	if errors.Is(err, database.ErrUserNotFound) {
		return fmt.Errorf("no user with email %s", opts.email)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if granted {
		fmt.Fprintf(out, "granted admin to %s\n", opts.email)
	} else {
		fmt.Fprintf(out, "%s is already an admin\n", opts.email)
	}

	user, err := store.NewUserStore(db).FindByEmail(cmd.Context(), opts.email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no user with email %s", opts.email)
	}
	roles := store.NewRoleStore(db)
	held, err := roles.ListForUser(cmd.Context(), user.ID)
	if err != nil {
		return err
	}
	trail, err := roles.AuditTrail(cmd.Context(), user.ID)
	if err != nil {
		return err
	}
	printRoleSummary(out, held, trail)
	return nil
}

// printRoleSummary writes the roles a user holds followed by their role
// audit trail, newest first.
func printRoleSummary(w io.Writer, held []models.Role, trail []models.RoleAudit) {
	names := make([]string, len(held))
	for i, r := range held {
		names[i] = string(r)
	}
	if len(names) == 0 {
		names = []string{"(none)"}
	}
	fmt.Fprintf(w, "roles: %s\n", strings.Join(names, ", "))

	if len(trail) == 0 {
		return
	}
	fmt.Fprintln(w, "audit trail:")
	for _, a := range trail {
		line := fmt.Sprintf("  %s  %s %s by %s", a.CreatedAt.UTC().Format(time.RFC3339), a.Action, a.Role, a.Actor)
		if a.Reason != "" {
			line += fmt.Sprintf(" (%s)", a.Reason)
		}
		fmt.Fprintln(w, line)
	}
}
