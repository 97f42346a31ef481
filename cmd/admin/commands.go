package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/amcbunq-server/internal/model"
	"github.com/dtroode/amcbunq-server/internal/money"
	"github.com/dtroode/amcbunq-server/internal/service"
)

func newRootCmd(open appOpener) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Inspect and edit AmCbunq user records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	run := func(fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close(context.WithoutCancel(cmd.Context()))
			return fn(cmd.Context(), cmd, a, args)
		}
	}

	root.AddCommand(
		newUserCmd(run),
		newAccountCmd(run),
		newNotifyCmd(run),
		newNotificationsCmd(run),
		newTokenCmd(run),
	)
	return root
}

type runner func(fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error

func newUserCmd(run runner) *cobra.Command {
	user := &cobra.Command{Use: "user", Short: "Manage user records"}

	get := &cobra.Command{
		Use:   "get <user-id>",
		Short: "Print a user record",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			u, err := a.users.GetUser(ctx, args[0])
			if err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), u)
			return nil
		}),
	}

	find := &cobra.Command{
		Use:   "find <email>",
		Short: "Find a user by email",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			u, err := a.users.FindUserByEmail(ctx, args[0])
			if err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), u)
			return nil
		}),
	}

	var status string
	create := &cobra.Command{
		Use:   "create <user-id> <email>",
		Short: "Create a user record",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			u, err := a.users.CreateUser(ctx, service.CreateUserParams{
				ID:                 args[0],
				Email:              args[1],
				VerificationStatus: status,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.ID, u.VerificationStatus)
			return nil
		}),
	}
	create.Flags().StringVar(&status, "status", "", "initial verification status (unverified, pending, verified)")

	setStatus := &cobra.Command{
		Use:   "set-status <user-id> <status>",
		Short: "Set the KYC verification status",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			if err := a.users.UpdateVerificationStatus(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s is now %s\n", args[0], args[1])
			return nil
		}),
	}

	verifyEmail := &cobra.Command{
		Use:   "verify-email <user-id>",
		Short: "Mark the email address as verified",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			if err := a.users.MarkEmailVerified(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "email of user %s marked verified\n", args[0])
			return nil
		}),
	}

	user.AddCommand(get, find, create, setStatus, verifyEmail)
	return user
}

func newAccountCmd(run runner) *cobra.Command {
	account := &cobra.Command{Use: "account", Short: "Manage user accounts"}

	var (
		id, name, accountType, balance, currency, status, card string
		creditLimit, availableCredit                           string
	)
	add := &cobra.Command{
		Use:   "add <user-id>",
		Short: "Add an account unless one with the same id exists",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			acc := model.Account{
				ID:               id,
				Name:             name,
				Type:             model.AccountType(accountType),
				Currency:         currency,
				Status:           model.AccountStatus(status),
				CardNumberMasked: card,
			}
			var err error
			if acc.Balance, err = money.Parse(balance); err != nil {
				return err
			}
			if acc.CreditLimit, err = parseOptionalAmount(creditLimit); err != nil {
				return err
			}
			if acc.AvailableCredit, err = parseOptionalAmount(availableCredit); err != nil {
				return err
			}

			acc, created, err := a.users.AppendAccount(ctx, args[0], acc)
			if err != nil {
				return err
			}
			verb := "added to"
			if !created {
				verb = "already on"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s (%s, %s %s) %s user %s\n",
				acc.ID, acc.Type, money.Format(acc.Balance), acc.Currency, verb, args[0])
			return nil
		}),
	}
	f := add.Flags()
	f.StringVar(&id, "id", "", "account id (generated when empty)")
	f.StringVar(&name, "name", "", "display name")
	f.StringVar(&accountType, "type", string(model.AccountCurrent), "current, savings or credit")
	f.StringVar(&balance, "balance", "0", "balance in major units, e.g. 120.50")
	f.StringVar(&currency, "currency", "", "ISO 4217 code (default EUR)")
	f.StringVar(&status, "status", "", "active or inactive (default active)")
	f.StringVar(&creditLimit, "credit-limit", "", "credit limit, credit accounts only")
	f.StringVar(&availableCredit, "available-credit", "", "available credit, credit accounts only")
	f.StringVar(&card, "card", "", "masked card number")
	_ = add.MarkFlagRequired("name")

	account.AddCommand(add)
	return account
}

func parseOptionalAmount(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := money.Parse(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type notificationFile struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	Type     string     `json:"type"`
	Priority string     `json:"priority"`
	Category string     `json:"category"`
	Date     *time.Time `json:"date"`
}

func newNotifyCmd(run runner) *cobra.Command {
	var n notificationFile
	var file string

	cmd := &cobra.Command{
		Use:   "notify <user-id>",
		Short: "Append a notification, or a batch from a JSON file",
		Long: "Appends one notification built from flags, or with --file all notifications of a\n" +
			"JSON array in file order. A batch is written at once or not at all.",
		Args: cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			batch := []notificationFile{n}
			if file != "" {
				var err error
				if batch, err = readNotifications(file); err != nil {
					return err
				}
			}

			items := make([]model.Notification, 0, len(batch))
			for _, b := range batch {
				items = append(items, b.toModel())
			}
			stored, err := a.users.AppendNotifications(ctx, args[0], items)
			if err != nil {
				return err
			}
			for _, s := range stored {
				fmt.Fprintf(cmd.OutOrStdout(), "appended %s %q\n", s.ID, s.Title)
			}
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&file, "file", "", "JSON file with an array of notifications")
	f.StringVar(&n.Title, "title", "", "notification title")
	f.StringVar(&n.Message, "message", "", "notification message")
	f.StringVar(&n.Type, "type", "", "info, success, warning or feature")
	f.StringVar(&n.Priority, "priority", "", "low, medium or high")
	f.StringVar(&n.Category, "category", "", "transaction, security, general or feature")
	cmd.MarkFlagsMutuallyExclusive("file", "title")
	return cmd
}

func readNotifications(path string) ([]notificationFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var batch []notificationFile
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return batch, nil
}

func (n notificationFile) toModel() model.Notification {
	out := model.Notification{
		ID:       n.ID,
		Title:    n.Title,
		Message:  n.Message,
		Type:     model.NotificationType(n.Type),
		Priority: model.NotificationPriority(n.Priority),
		Category: model.NotificationCategory(n.Category),
	}
	if n.Date != nil {
		out.Date = *n.Date
	}
	return out
}

func newNotificationsCmd(run runner) *cobra.Command {
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "notifications <user-id>",
		Short: "List notifications, optionally only recent ones",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			list, err := a.users.ListNotifications(ctx, args[0], since)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTYPE\tPRIORITY\tCATEGORY\tTITLE")
			for _, n := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					n.Date.UTC().Format(time.RFC3339), n.Type, n.Priority, n.Category, n.Title)
			}
			return w.Flush()
		}),
	}
	cmd.Flags().DurationVar(&since, "since", 0, "only notifications younger than this, e.g. 30m")
	return cmd
}

func newTokenCmd(run runner) *cobra.Command {
	var admin bool
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue an access token for the HTTP API",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(_ context.Context, cmd *cobra.Command, a *app, args []string) error {
			if ttl == 0 {
				ttl = a.tokenTTL
			}
			tok, err := a.tokens.GenerateAccessToken(model.Principal{UserID: args[0], Admin: admin}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the admin role")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default JWT_TTL)")
	return cmd
}

func printUser(out io.Writer, u model.User) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "id:\t%s\n", u.ID)
	fmt.Fprintf(w, "email:\t%s\n", u.Email)
	fmt.Fprintf(w, "verification status:\t%s\n", u.VerificationStatus)
	verified := "no"
	if u.EmailVerified && u.EmailVerifiedAt != nil {
		verified = "yes (" + u.EmailVerifiedAt.UTC().Format(time.RFC3339) + ")"
	} else if u.EmailVerified {
		verified = "yes"
	}
	fmt.Fprintf(w, "email verified:\t%s\n", verified)
	fmt.Fprintf(w, "notifications:\t%d\n", len(u.Notifications))

	accounts := make([]string, 0, len(u.Accounts))
	for _, a := range u.Accounts {
		accounts = append(accounts, fmt.Sprintf("%s %s %s %s", a.ID, a.Type, money.Format(a.Balance), a.Currency))
	}
	fmt.Fprintf(w, "accounts:\t%s\n", strings.Join(accounts, "; "))
	_ = w.Flush()
}
