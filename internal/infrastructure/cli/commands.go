package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haunted-sh/haunted/internal/app"
	"github.com/haunted-sh/haunted/internal/domain"
)

func newHistoryCommand(container *app.Container, renderer *Renderer) *cobra.Command {
	var (
		limit  int
		search string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past successful commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !container.History.Available() {
				return errors.New("history database is unavailable")
			}
			var (
				records []domain.HistoryRecord
				err     error
			)
			if search != "" {
				records, err = container.History.Similar(search, limit)
			} else {
				records, err = container.History.Recent(limit)
			}
			if err != nil {
				return err
			}
			renderer.History(records)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", domain.DefaultHistoryLimit, "Number of records to show")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by request text")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all history and rejection records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.History.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "export [file]",
		Short: "Export history as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.History.ExportJSON(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", args[0])
			return nil
		},
	})
	return cmd
}

func newSuggestCommand(container *app.Container, renderer *Renderer) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest [request]",
		Short: "Rank past commands against a request",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// no request text: surface what gets run from this directory
				dir, err := os.Getwd()
				if err != nil {
					return err
				}
				records, err := container.History.FrequentInDir(dir, limit)
				if err != nil {
					return err
				}
				renderer.Suggestions(records)
				return nil
			}
			renderer.Suggestions(container.Ranker.Rank(strings.Join(args, " "), limit))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", domain.DefaultSuggestionLimit, "Number of suggestions")
	return cmd
}

func newAliasCommand(container *app.Container, renderer *Renderer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias [name] [command...]",
		Short: "Define or list command aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				aliases, err := container.History.Aliases()
				if err != nil {
					return err
				}
				renderer.Aliases(aliases)
				return nil
			}
			if len(args) < 2 {
				return errors.New("usage: alias <name> [=] <command>")
			}
			name := args[0]
			rest := args[1:]
			if rest[0] == "=" {
				rest = rest[1:]
			}
			if len(rest) == 0 {
				return errors.New("usage: alias <name> [=] <command>")
			}
			command := strings.Join(rest, " ")
			if err := container.History.SaveAlias(name, command); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "alias %s -> %s\n", name, command)
			return nil
		},
	}
	return cmd
}

func newUnaliasCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "unalias [name]",
		Short: "Remove a command alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := container.History.RemoveAlias(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no alias named %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed alias %s\n", args[0])
			return nil
		},
	}
}

func newExplainCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [command...]",
		Short: "Explain what a shell command does",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			explanation, err := container.TurnService.Explain(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), explanation)
			return nil
		},
	}
}

func newKnowledgeCommand(container *app.Container, renderer *Renderer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Manage personal request-to-command mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer.Mappings(container.Knowledge.Entries())
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add [request] [command]",
		Short: "Add a mapping that overrides interpretation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.Knowledge.Add(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mapping saved to %s\n", container.Knowledge.Path())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "search [query]",
		Short: "Search mappings by request text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer.Mappings(container.Knowledge.Search(strings.Join(args, " "), 0))
			return nil
		},
	})
	return cmd
}

func newBlacklistCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blacklist",
		Short: "Manage forbidden command patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := container.Blacklist.Patterns()
			if len(patterns) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no blacklisted patterns")
				return nil
			}
			for _, p := range patterns {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add [pattern]",
		Short: "Forbid a command pattern",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := strings.Join(args, " ")
			if err := container.Blacklist.Add(pattern); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "blacklisted: %s\n", pattern)
			return nil
		},
	})
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "haunted %s\n", Version)
		},
	}
}
