package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/api/dto"
	"github.com/spec-kit/parts-assistant/internal/app"
	"github.com/spec-kit/parts-assistant/internal/catalog"
	"github.com/spec-kit/parts-assistant/internal/config"
	"github.com/spec-kit/parts-assistant/internal/domain"
	"github.com/spec-kit/parts-assistant/internal/observability"
)

type cliOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:           "partsctl",
		Short:         "Talk to the refrigerator and dishwasher parts assistant from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stdout at the configured LOG_LEVEL")

	root.AddCommand(
		newAskCmd(opts),
		newChatCmd(opts),
		newSearchCmd(opts),
		newSeedCmd(opts),
	)
	return root
}

// build wires the application the same way the HTTP server does.
func (o *cliOptions) build(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := zap.NewNop()
	if o.verbose {
		if logger, err = observability.NewLogger(cfg.Logger); err != nil {
			return nil, err
		}
	}
	return app.New(ctx, cfg, logger)
}

func newAskCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>",
		Short: "Ask a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.Chat.Respond(cmd.Context(), strings.Join(args, " "), nil)
			if err != nil {
				return err
			}
			printResponse(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

func newChatCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation (type 'exit' to quit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), a)
		},
	}
}

func runChat(ctx context.Context, in io.Reader, out io.Writer, a *app.App) error {
	var history []domain.ChatMessage
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "exit" || message == "quit" {
			return nil
		}

		resp, err := a.Chat.Respond(ctx, message, history)
		if err != nil {
			return err
		}
		printResponse(out, resp)
		history = append(history,
			domain.ChatMessage{Role: domain.RoleUser, Content: message},
			domain.ChatMessage{Role: domain.RoleAssistant, Content: resp.Message},
		)
	}
}

func newSearchCmd(opts *cliOptions) *cobra.Command {
	var (
		category string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the parts catalog directly",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := domain.Category(strings.ToLower(category))
			if cat != "" && !cat.Valid() {
				return fmt.Errorf("unknown category %q", category)
			}
			a, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			matches, err := a.Catalog.SearchByText(cmd.Context(), strings.Join(args, " "), catalog.SearchOptions{
				Category:   cat,
				MaxResults: limit,
			})
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching parts.")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-45s $%8.2f  score %.2f\n", m.Part.PartNumber, m.Part.Name, m.Part.Price, m.Score)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "refrigerator or dishwasher")
	cmd.Flags().IntVarP(&limit, "limit", "n", domain.DefaultResultLimit, "maximum number of results")
	return cmd
}

func newSeedCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Copy the embedded catalog into Postgres (requires POSTGRES_DSN)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			pool := a.Postgres.PoolHandle()
			if pool == nil {
				return errors.New("POSTGRES_DSN is not set")
			}
			ds, err := catalog.NewEmbeddedSource().Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := catalog.NewPostgresSource(pool).Seed(cmd.Context(), ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d parts, %d models, %d orders.\n", len(ds.Parts), len(ds.Models), len(ds.Orders))
			return nil
		},
	}
}

func printResponse(out io.Writer, resp domain.ChatResponse) {
	fmt.Fprintln(out, resp.Message)
	for _, p := range resp.Products {
		fmt.Fprintf(out, "  - %s (%s) $%.2f %s\n", p.Name, p.PartNumber, p.Price, dto.ProductURL(p.PartNumber))
	}
	if resp.ShowTicketForm {
		fmt.Fprintln(out, "  (a support ticket can be opened with POST /api/tickets)")
	}
}
