package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-inject/app"
	kernel "github.com/km-arc/go-inject/framework/app"
	"github.com/km-arc/go-inject/framework/providers"
)

var envFiles []string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "go-inject",
	Short:         "go-inject — dependency injection demo application",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", nil, "env files to load (default .env)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(routesCmd)
}

// bootstrap builds the application with the user providers registered.
func bootstrap() (*kernel.Application, error) {
	application, err := kernel.New(envFiles...)
	if err != nil {
		return nil, err
	}
	if err := application.Register(&app.AppServiceProvider{
		Seed: []app.User{
			{Name: "Alice", Email: "alice@example.com"},
			{Name: "Bob", Email: "bob@example.com"},
		},
	}); err != nil {
		return nil, err
	}
	return application, nil
}

// go-inject serve — boot and start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := bootstrap()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return application.Run(ctx)
	},
}

// go-inject check — validate the dependency graph and list every binding.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the dependency graph and list the bindings",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := bootstrap()
		if err != nil {
			return err
		}
		if err := application.Providers.Boot(); err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "KEY\tDEPENDENCIES")
		fmt.Fprintln(w, "---\t------------")
		for _, b := range providers.Bindings(application.Container) {
			fmt.Fprintf(w, "%s\t%v\n", b.Key, b.Dependencies)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if err := application.Check(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "dependency graph ok")
		return nil
	},
}

// go-inject routes — print all registered routes.
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := bootstrap()
		if err != nil {
			return err
		}
		if err := application.Boot(); err != nil {
			return err
		}
		routes, err := application.Router().Routes()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH")
		fmt.Fprintln(w, "------\t----")
		for _, r := range routes {
			fmt.Fprintf(w, "%s\t%s\n", r.Method, r.Path)
		}
		return w.Flush()
	},
}
