package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gnoswap-labs/nequiv/verify"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "nequiv [reference] [optimized]",
	Short:            "nequiv - combinational equivalence checking for bench netlists",
	TraverseChildren: true, // Prioritize subcommands
	SilenceUsage:     true,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			_ = cmd.Help()
			return
		}
		// Format: nequiv REF OPT => behaves like the check subcommand
		checkCmd.Run(checkCmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", verify.DefaultConfigFile, "Path to the configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Abort a run after this duration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(outputsCmd)
	rootCmd.AddCommand(dotCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(validateCmd)
}

func initLogger() {
	config := zap.NewDevelopmentConfig()
	config.DisableStacktrace = true
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	l, err := config.Build()
	if err != nil {
		l = zap.NewNop()
	}
	logger = l
}

// loadEngine reads the configuration and applies the command line
// overrides before creating the engine.
func loadEngine(override func(*verify.Config)) *verify.Engine {
	config, err := verify.LoadConfig(cfgFile)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.String("path", cfgFile), zap.Error(err))
	}
	if override != nil {
		override(&config)
	}
	engine, err := verify.NewEngine(config, logger)
	if err != nil {
		logger.Fatal("Failed to initialize engine", zap.Error(err))
	}
	return engine
}
