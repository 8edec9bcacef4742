package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"esgchat/internal/gateway"
	"esgchat/internal/onboarding"
	"esgchat/internal/registry"
	"esgchat/internal/scraper"
	"esgchat/internal/webui"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "esgchat",
		Short: "Chat with ESG sustainability reports",
		Long: `esgchat answers questions about corporate ESG sustainability reports
through single or multi-agent LLM conversations with document tools.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", onboarding.DefaultConfigPath, "config file path")

	root.AddCommand(
		newChatCmd(&configPath),
		newAskCmd(&configPath),
		newServeCmd(&configPath),
		newInitCmd(),
		newTwseCmd(),
		newVersionCmd(),
	)
	return root
}

func newChatCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return gateway.New(*configPath).Run(cmd.Context())
		},
	}
}

func newAskCmd(configPath *string) *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Answer a single prompt and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return gateway.New(*configPath).Execute(cmd.Context(), args[0], reportPath)
		},
	}
	cmd.Flags().StringVarP(&reportPath, "report", "r", "", "report text file to load before answering")
	return cmd
}

func newServeCmd(configPath *string) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := webui.NewServer(gateway.New(*configPath), port)
			return srv.Start(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port")
	return cmd
}

func newInitCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Run the setup wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain {
				wizard := onboarding.NewWizard()
				cfg, err := wizard.Run()
				if err != nil {
					return err
				}
				return cfg.SaveToFile(onboarding.DefaultConfigPath)
			}
			return onboarding.RunTUI()
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "use the line-based wizard instead of the TUI")
	return cmd
}

func newTwseCmd() *cobra.Command {
	var (
		out      string
		headless bool
	)

	cmd := &cobra.Command{
		Use:   "twse",
		Short: "Scrape the TWSE listing into a company registry file",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := scraper.New(scraper.Config{Headless: headless})
			if err := s.Start(cmd.Context()); err != nil {
				return fmt.Errorf("start browser: %w", err)
			}
			defer s.Stop()

			store := registry.NewStore()
			n, err := s.Seed(cmd.Context(), store)
			if err != nil {
				return err
			}
			if err := store.SaveJSONFile(out); err != nil {
				return err
			}
			fmt.Printf("wrote %d companies to %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "companies.json", "output file")
	cmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("esgchat %s\n", version)
		},
	}
}
