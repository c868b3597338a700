package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/helpdesk-log/internal/app"
	"github.com/spec-kit/helpdesk-log/internal/config"
	"github.com/spec-kit/helpdesk-log/internal/domain"
	"github.com/spec-kit/helpdesk-log/internal/observability"
	"github.com/spec-kit/helpdesk-log/internal/service"
	"github.com/spec-kit/helpdesk-log/internal/view"
)

type cli struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	c.v.SetEnvPrefix("HELPDESK")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "helpdeskctl",
		Short:         "Operate the helpdesk log from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("json", false, "output JSON")
	root.PersistentFlags().BoolP("yes", "y", false, "skip delete confirmation")
	root.PersistentFlags().Bool("verbose", false, "log to stderr")
	_ = c.v.BindPFlag("json", root.PersistentFlags().Lookup("json"))
	_ = c.v.BindPFlag("yes", root.PersistentFlags().Lookup("yes"))
	_ = c.v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))

	root.AddCommand(
		c.listCmd(),
		c.addCmd(),
		c.statusCmd(),
		c.deleteCmd(),
		c.dashboardCmd(),
		c.exportCmd(),
		c.importCmd(),
	)
	return root
}

// withCore loads configuration, opens the store and runs fn against a
// freshly loaded ticket list.
func (c *cli) withCore(ctx context.Context, fn func(ctx context.Context, core *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := zap.NewNop()
	if c.v.GetBool("verbose") {
		cfg.Logger.Level = "debug"
		if logger, err = observability.NewLogger(cfg.Logger); err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
	}
	core, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer core.Close()
	return fn(ctx, core)
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List logged requests, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCore(cmd.Context(), func(ctx context.Context, core *app.App) error {
				tickets := core.Tickets.Tickets()
				if c.v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), tickets)
				}
				page := view.Render(tickets, view.Options{})
				tw := table.NewWriter()
				tw.SetOutputMirror(cmd.OutOrStdout())
				tw.AppendHeader(table.Row{"ID", "Date", "Employee", "Issue", "Action Taken", "Status"})
				for _, row := range page.Rows {
					tw.AppendRow(table.Row{row.ID, row.Date, row.Employee, row.Issue, row.Action.Display(), row.Status})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func (c *cli) addCmd() *cobra.Command {
	var input service.TicketCreateInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a new request",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCore(cmd.Context(), func(ctx context.Context, core *app.App) error {
				ticket, err := core.Tickets.Create(ctx, input)
				if err != nil {
					return err
				}
				if c.v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), ticket)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", ticket.ID, ticket.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&input.Employee, "employee", "", "employee name")
	cmd.Flags().StringVar(&input.Issue, "issue", "", "issue description")
	cmd.Flags().StringVar(&input.Action, "action", "", "action taken")
	cmd.Flags().StringVar(&input.Status, "status", "", "Pending, In Progress or Completed")
	return cmd
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change the status of a request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCore(cmd.Context(), func(ctx context.Context, core *app.App) error {
				ticket, err := core.Tickets.ChangeStatus(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				if c.v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), ticket)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", ticket.Employee, ticket.Status)
				return nil
			})
		},
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a request after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCore(cmd.Context(), func(ctx context.Context, core *app.App) error {
				confirm := service.Confirmed
				if !c.v.GetBool("yes") {
					confirm = promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
				}
				deleted, err := core.Tickets.Delete(ctx, args[0], confirm)
				if err != nil {
					return err
				}
				if deleted {
					fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "kept", args[0])
				}
				return nil
			})
		},
	}
}

func promptConfirmer(in io.Reader, out io.Writer) service.Confirmer {
	return service.ConfirmFunc(func(_ context.Context, ticket domain.Ticket) (bool, error) {
		fmt.Fprintf(out, "Delete this log? (%s: %s) [y/N] ", ticket.Employee, ticket.Issue)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	})
}

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show counters, completion and recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCore(cmd.Context(), func(ctx context.Context, core *app.App) error {
				page := core.Board.Page()
				if c.v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), map[string]any{
						"counters":   page.Counters,
						"completion": page.Completion,
						"timeline":   page.Timeline,
					})
				}
				out := cmd.OutOrStdout()
				tw := table.NewWriter()
				tw.SetOutputMirror(out)
				tw.AppendHeader(table.Row{"Total", "Pending", "In Progress", "Completed", "Done"})
				tw.AppendRow(table.Row{
					page.Counters.Total,
					page.Counters.Pending,
					page.Counters.InProgress,
					page.Counters.Completed,
					fmt.Sprintf("%d%%", page.Completion.Percent),
				})
				tw.Render()

				recent := table.NewWriter()
				recent.SetOutputMirror(out)
				recent.AppendHeader(table.Row{"Recent activity"})
				for _, entry := range page.Timeline {
					recent.AppendRow(table.Row{entry.Summary})
				}
				recent.Render()
				return nil
			})
		},
	}
}

// ticketFile is the YAML interchange shape for export and import.
type ticketFile struct {
	Tickets []ticketEntry `yaml:"tickets"`
}

type ticketEntry struct {
	ID        string `yaml:"id,omitempty"`
	Employee  string `yaml:"employee"`
	Issue     string `yaml:"issue"`
	Action    string `yaml:"action,omitempty"`
	Status    string `yaml:"status,omitempty"`
	CreatedAt string `yaml:"createdAt,omitempty"`
}

func (c *cli) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every request as YAML (or JSON with --json)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCore(cmd.Context(), func(ctx context.Context, core *app.App) error {
				tickets := core.Tickets.Tickets()
				if c.v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), tickets)
				}
				file := ticketFile{Tickets: make([]ticketEntry, 0, len(tickets))}
				for _, t := range tickets {
					file.Tickets = append(file.Tickets, ticketEntry{
						ID:        t.ID,
						Employee:  t.Employee,
						Issue:     t.Issue,
						Action:    t.Action,
						Status:    string(t.Status),
						CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339Nano),
					})
				}
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(file); err != nil {
					return err
				}
				return enc.Close()
			})
		},
	}
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Log every request listed in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var file ticketFile
			if err := yaml.Unmarshal(raw, &file); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			return c.withCore(cmd.Context(), func(ctx context.Context, core *app.App) error {
				for i, entry := range file.Tickets {
					_, err := core.Tickets.Create(ctx, service.TicketCreateInput{
						Employee: entry.Employee,
						Issue:    entry.Issue,
						Action:   entry.Action,
						Status:   entry.Status,
					})
					if err != nil {
						return fmt.Errorf("entry %d: %w", i+1, err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d requests\n", len(file.Tickets))
				return nil
			})
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
