package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ordersbot/config"
	"ordersbot/parser"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger = zap.NewNop()

	verbose bool
	noTag   bool
)

var rootCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract transport orders from PDF documents",
	Long: `Extract order number, unloading date, license plate, freight and the
loading and unloading cities from transport order PDFs.

Configuration comes from the environment and .env, the same as the bot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if noTag {
			cfg.Extraction.UseTagger = false
		}

		env := cfg.Env
		if verbose {
			env = "development"
		}
		l, err := config.NewLogger(env)
		if err != nil {
			return err
		}
		if !verbose {
			l = l.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noTag, "no-tagger", false, "resolve cities with patterns only")
}

func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer func() { logger.Sync() }()

	return rootCmd.ExecuteContext(ctx)
}

func newExtractor() (*parser.Extractor, *parser.PdfReader) {
	return parser.NewExtractorFromConfig(cfg.Extraction, logger), parser.NewPdfReader(logger.Named("pdf"))
}
