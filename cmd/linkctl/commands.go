package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"linkshelf/internal/reconcile"
	dErrors "linkshelf/pkg/domain-errors"
	"linkshelf/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	var (
		filter reconcile.Filter
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List bookmarks in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			items := a.sync.Apply(filter)
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			return printTable(a, items)
		},
	}
	cmd.Flags().StringVar(&filter.Type, "type", reconcile.AllValues, "only this type")
	cmd.Flags().StringVar(&filter.Region, "region", reconcile.AllValues, "only this region")
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "substring of name, url or type")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Show the type and region values present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			o := a.sync.Options()
			fmt.Fprintf(a.out, "types:   %s\n", strings.Join(o.Types, ", "))
			fmt.Fprintf(a.out, "regions: %s\n", strings.Join(o.Regions, ", "))
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var typ, region string
	cmd := &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Add a bookmark at the top",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.load(ctx); err != nil {
				return err
			}
			task, err := a.sync.AddLocal(ctx, args[0], args[1], typ, region)
			if err != nil {
				return err
			}
			if err := task.Wait(ctx); err != nil {
				return err
			}
			name := strings.TrimSpace(args[0])
			for _, b := range a.sync.Snapshot().Items {
				if b.Name == name && !b.Pending() {
					fmt.Fprintf(a.out, "added %s (%s)\n", b.Name, b.ID)
					return nil
				}
			}
			fmt.Fprintf(a.out, "added %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "bookmark type, e.g. chat")
	cmd.Flags().StringVar(&region, "region", "", "bookmark region, e.g. us")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var name, url, typ, region string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a bookmark (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := types.UpdateBookmarkRequest{ID: args[0]}
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("url") {
				req.URL = &url
			}
			if flags.Changed("type") {
				req.Type = &typ
			}
			if flags.Changed("region") {
				req.Region = &region
			}
			if err := a.api.Update(cmd.Context(), req); err != nil {
				return hint(err)
			}
			fmt.Fprintf(a.out, "updated %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&url, "url", "", "new url")
	cmd.Flags().StringVar(&typ, "type", "", "new type")
	cmd.Flags().StringVar(&region, "region", "", "new region")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a bookmark (admin)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.loadSettled(ctx); err != nil {
				return err
			}
			task, err := a.sync.RemoveLocal(ctx, args[0])
			if err != nil {
				return err
			}
			if err := task.Wait(ctx); err != nil {
				return hint(err)
			}
			fmt.Fprintf(a.out, "removed %s\n", args[0])
			return nil
		},
	}
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move the bookmark at position from to position to (1-based)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := position(args[0])
			if err != nil {
				return err
			}
			to, err := position(args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := a.loadSettled(ctx); err != nil {
				return err
			}
			task, err := a.sync.MoveLocal(ctx, from, to)
			if err != nil {
				return err
			}
			a.sync.Wait()
			if err := task.Err(); err != nil {
				fmt.Fprintf(a.errOut, "warning: new order not saved: %v\n", hint(err))
			}
			return printTable(a, a.sync.Snapshot().Items)
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the collection and restore the default set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			items, err := a.api.Reset(ctx)
			if err != nil {
				return err
			}
			if err := a.sync.Load(ctx); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "collection reset to %d bookmarks\n", len(items))
			return nil
		},
	}
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start an admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("LINKSHELF_PASSWORD")
			}
			ok, err := a.api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("login rejected")
			}
			if err := a.saveSession(a.api.SessionToken()); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintln(a.out, "logged in")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (default $LINKSHELF_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.api.Logout(cmd.Context()); err != nil {
				return err
			}
			if err := a.dropSession(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "logged out")
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the saved session is an admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			admin, err := a.api.AuthStatus(cmd.Context())
			if err != nil {
				return err
			}
			if admin {
				fmt.Fprintln(a.out, "admin")
			} else {
				fmt.Fprintln(a.out, "visitor")
			}
			return nil
		},
	}
}

func printTable(a *app, items []types.Bookmark) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tTYPE\tREGION\tURL\tID")
	for i, b := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, b.Name, dash(b.Type), dash(b.Region), b.URL, dash(b.ID))
	}
	return tw.Flush()
}

func dash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

// position converts a 1-based argument into an index.
func position(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q", arg)
	}
	return n - 1, nil
}

func hint(err error) error {
	if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
		return fmt.Errorf("%w (run linkctl login first)", err)
	}
	return err
}
