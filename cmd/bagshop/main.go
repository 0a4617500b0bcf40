package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/config"
	"github.com/ramesh9813/bagshop-client-sub000/pkg/logger"
)

var (
	// Global flags
	configPath string
	verbose    bool
	profile    string

	log *zap.Logger
	a   *app
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bagshop",
	Short: "BagShop storefront from the terminal",
	Long: `bagshop browses the BagShop catalog, keeps a cart and places orders.

A guest cart is kept locally and merged into your account cart when you log in.
Local state (guest cart, cached profile, login cookies) lives in a sqlite file;
see --config and BAGSHOP_SQLITE_PATH.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if profile != "" {
			cfg.Store.Namespace = profile
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// keep the terminal quiet unless asked
		level := "warn"
		if verbose {
			level = "debug"
		}
		log, err = logger.New(logger.Options{Service: "bagshop-cli", Level: level, Development: cfg.Logging.Development})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		a, err = newApp(cmd.Context(), cfg, log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if a != nil {
			a.Close()
		}
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Local state profile (default from config)")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, registerCmd, passwordCmd, verifyCmd)
	rootCmd.AddCommand(productsCmd, cartCmd, checkoutCmd, paymentCmd, ordersCmd, chatCmd, inquiryCmd)
	rootCmd.AddCommand(adminCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}
