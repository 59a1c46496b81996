// Package cli wires the cobra command tree and the terminal adapters.
package cli

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haunted-sh/haunted/internal/app"
	"github.com/haunted-sh/haunted/internal/domain"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}
	container.TurnService.Prompter = NewPrompter(nil, nil)
	renderer := NewRenderer(nil)

	var autoExecute bool

	root := &cobra.Command{
		Use:   "haunted [request]",
		Short: "Haunted - natural language terminal",
		Long:  "Haunted interprets natural language into shell commands, classifies their risk, and asks before anything runs.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			res, err := container.TurnService.Run(cmd.Context(), domain.TurnRequest{
				Text:        strings.Join(args, " "),
				WorkingDir:  workingDir(),
				AutoExecute: autoExecute,
			})
			renderer.Result(res)
			if err != nil {
				var te *domain.TurnError
				if errors.As(err, &te) {
					return errors.New(te.Detail)
				}
				return err
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().BoolVarP(&autoExecute, "yes", "y", false, "Run safe commands without asking (never applies to risky ones)")

	root.AddCommand(newHistoryCommand(container, renderer))
	root.AddCommand(newSuggestCommand(container, renderer))
	root.AddCommand(newAliasCommand(container, renderer))
	root.AddCommand(newUnaliasCommand(container))
	root.AddCommand(newExplainCommand(container))
	root.AddCommand(newKnowledgeCommand(container, renderer))
	root.AddCommand(newBlacklistCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}

func workingDir() string {
	if dir, err := os.Getwd(); err == nil {
		return dir
	}
	return ""
}
