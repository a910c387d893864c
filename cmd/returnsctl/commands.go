package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"returns-assistant-be/internal/bootstrap"
	"returns-assistant-be/internal/config"
	"returns-assistant-be/internal/dto"
	"returns-assistant-be/internal/pkg/logger"
	"returns-assistant-be/internal/service"
	"returns-assistant-be/pkg/events"
	pktNats "returns-assistant-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type cli struct {
	cfg     *config.Config
	jsonOut bool
	offline bool

	core    *bootstrap.Core
	service service.IReturnsService
}

// NewRootCommand creates the returnsctl command tree.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	c := &cli{cfg: cfg}

	root := &cobra.Command{
		Use:           "returnsctl",
		Short:         "Ask the returns assistant, search policies and compute refunds",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.core != nil {
				c.core.Close()
			}
		},
	}
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "print machine-readable JSON")
	root.PersistentFlags().BoolVar(&c.offline, "offline", false, "skip the LLM and use deterministic fallbacks only")
	root.PersistentFlags().BoolVar(&color.NoColor, "no-color", color.NoColor, "disable colored output")

	root.AddCommand(c.askCommand(), c.searchCommand(), c.refundCommand(), c.policiesCommand(), c.eventsCommand())
	return root
}

func (c *cli) load() error {
	if c.service != nil {
		return nil
	}
	if c.offline {
		c.cfg.LLM.Provider = "none"
	}

	// CLI logs go to the file only so stdout stays readable
	sysLogger := logger.NewIsolatedLogger(c.cfg.App.LogFilePath)
	core, err := bootstrap.NewCore(c.cfg, sysLogger)
	if err != nil {
		return err
	}
	c.core = core
	c.service = service.NewReturnsService(core.Graph, core.Retrieval, core.Calculator, core.Store, nil, nil, logger.NewNopLogger(), sysLogger)
	return nil
}

func (c *cli) askCommand() *cobra.Command {
	var samples bool

	cmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Run a query through the assistant",
		Args: func(cmd *cobra.Command, args []string) error {
			if samples {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(); err != nil {
				return err
			}

			queries := []string{strings.Join(args, " ")}
			if samples {
				queries = sampleQueries
			}

			w := cmd.OutOrStdout()
			for i, q := range queries {
				res, err := c.service.Ask(cmd.Context(), &dto.AskRequest{Query: q})
				if err != nil {
					return err
				}
				if c.jsonOut {
					if err := printJSON(w, res); err != nil {
						return err
					}
					continue
				}
				if i > 0 {
					fmt.Fprintln(w)
				}
				printAnswer(w, q, res)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&samples, "samples", false, "run the built-in sample queries")
	return cmd
}

func (c *cli) searchCommand() *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank policies for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if topK < 1 || topK > 10 {
				return fmt.Errorf("--top-k must be between 1 and 10")
			}
			if err := c.load(); err != nil {
				return err
			}

			res, err := c.service.Search(cmd.Context(), &dto.SearchRequest{Query: strings.Join(args, " "), TopK: topK})
			if err != nil {
				return err
			}
			if c.jsonOut {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printHits(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().IntVarP(&topK, "top-k", "k", 3, "number of policies to return")
	return cmd
}

func (c *cli) refundCommand() *cobra.Command {
	var (
		price    float64
		days     int
		opened   bool
		category string
	)

	cmd := &cobra.Command{
		Use:   "refund",
		Short: "Compute a refund directly from parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(); err != nil {
				return err
			}

			res, err := c.service.Refund(cmd.Context(), &dto.RefundRequest{
				PurchasePrice:     &price,
				DaysSinceDelivery: &days,
				Opened:            &opened,
				Category:          category,
			})
			if err != nil {
				return err
			}
			if c.jsonOut {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printRefund(cmd.OutOrStdout(), *res)
			return nil
		},
	}
	cmd.Flags().Float64Var(&price, "price", 0, "purchase price")
	cmd.Flags().IntVar(&days, "days", 0, "days since delivery")
	cmd.Flags().BoolVar(&opened, "opened", false, "item was opened")
	cmd.Flags().StringVar(&category, "category", "", "item category (electronics, apparel, books, home)")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("days")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func (c *cli) policiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List the loaded return policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(); err != nil {
				return err
			}

			res, err := c.service.GetPolicies(cmd.Context())
			if err != nil {
				return err
			}
			if c.jsonOut {
				return printJSON(cmd.OutOrStdout(), res)
			}
			for _, p := range res {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n  %s\n", bold(p.Title), gray("("+p.Id+")"), p.Content)
			}
			return nil
		},
	}
}

func (c *cli) eventsCommand() *cobra.Command {
	var natsURL string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow answered-query events forwarded to NATS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if natsURL == "" {
				return fmt.Errorf("no NATS URL: set NATS_URL or --nats-url")
			}

			sub, err := pktNats.NewSubscriber(natsURL, logger.NewIsolatedLogger(c.cfg.App.LogFilePath).Named("nats"))
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := cmd.OutOrStdout()
			cc, err := sub.Subscribe(ctx, pktNats.Subject(events.TypeQueryAnswered), "", func(_ context.Context, e events.Event) error {
				if c.jsonOut {
					return printJSON(w, e.Payload())
				}
				p := e.Payload()
				fmt.Fprintf(w, "%s %s %s %v\n",
					gray(e.Timestamp().Format("15:04:05")),
					cyan(fmt.Sprint(p["intent"])),
					fmt.Sprint(p["request_id"]),
					p["query"])
				return nil
			})
			if err != nil {
				return err
			}
			defer cc.Stop()

			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&natsURL, "nats-url", c.cfg.Events.NatsURL, "NATS server URL")
	return cmd
}
