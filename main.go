package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alc6/pgpopulate/config"
	"github.com/alc6/pgpopulate/providers"
)

var (
	configPath   string
	providerName string
	printOutput  bool
	verbose      bool
	mcpMode      bool

	initForce       bool
	initInteractive bool

	verifyMigrations string
	verifyScriptPath string
	verifyImage      string
	verifySchema     string
)

var logLevel = new(slog.LevelVar)

var rootCmd = &cobra.Command{
	Use:   "pgpopulate",
	Short: "Generate INSERT scripts from the rows of a PostgreSQL database",
	Long: `pgpopulate reads the columns of each configured table, builds a query that
renders every row as a literal INSERT statement, runs it, and writes the
statements to a script that can repopulate the tables later.

The queries used to generate the script are saved next to it so they can be
run by hand.

Modes:
  generate (default): write the insert script and the generator queries
  mcp mode (--mcp): run as Model Context Protocol server`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logLevel.Set(slog.LevelDebug)
		}
	},
	RunE: runPgPopulate,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

var previewCmd = &cobra.Command{
	Use:   "preview <table>",
	Short: "Show the columns of a table and its generator query without running it",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Replay migrations and a generated script in a throwaway PostgreSQL",
	Long: `verify starts a PostgreSQL container with testcontainers, applies the schema
files found in the migration directory, executes the generated insert script
and compares the row count of every table with the number of statements.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func main() {
	os.Exit(exitCode(run()))
}

func run() error {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	setupCommands()

	return rootCmd.ExecuteContext(context.Background())
}

// setupCommands registers flags and subcommands once
func setupCommands() {
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Configuration file (yaml or json)")
		rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	}
	if rootCmd.Flags().Lookup("provider") == nil {
		rootCmd.Flags().StringVarP(&providerName, "provider", "p", "native", "Script provider: native or pg_dump")
		rootCmd.Flags().BoolVar(&printOutput, "print", false, "Also print the insert statements to stdout")
		rootCmd.Flags().BoolVar(&mcpMode, "mcp", false, "Run as Model Context Protocol server")
	}
	if initCmd.Flags().Lookup("force") == nil {
		initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration file")
		initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Prompt for the connection profile")
	}
	if verifyCmd.Flags().Lookup("migrations") == nil {
		verifyCmd.Flags().StringVarP(&verifyMigrations, "migrations", "m", "", "Directory with the schema migrations")
		verifyCmd.Flags().StringVarP(&verifyScriptPath, "script", "s", "", "Insert script to apply (default: configured output)")
		verifyCmd.Flags().StringVar(&verifyImage, "image", defaultSandboxImage, "PostgreSQL Docker image")
		verifyCmd.Flags().StringVar(&verifySchema, "schema", "", "Schema holding the tables (default: configured schema)")
		_ = verifyCmd.MarkFlagRequired("migrations")
	}
	if !rootCmd.HasSubCommands() {
		rootCmd.AddCommand(initCmd, previewCmd, verifyCmd)
	}
}

func runPgPopulate(cmd *cobra.Command, args []string) error {
	if mcpMode {
		slog.Info("starting mcp server")
		if err := StartMCPServer(configPath); err != nil {
			return GeneralError("failed to start mcp server", err)
		}
		return nil
	}

	cfg, created, err := loadOrCreateConfig(configPath)
	if err != nil {
		return err
	}
	if created {
		printStatus(cmd.ErrOrStderr(), statusWarn, "created %s, edit the connection profile and run again", configPath)
		return nil
	}

	provider, err := resolveProvider(providers.DefaultRegistry(), providerName)
	if err != nil {
		return ConfigError("invalid provider", err)
	}

	opts := generateOptions{
		Schema:      cfg.Schema,
		Tables:      cfg.Tables,
		InsertsPath: cfg.Output.Inserts,
		QueriesPath: cfg.Output.Queries,
	}
	if printOutput {
		opts.Echo = cmd.OutOrStdout()
	}

	if err := runGenerate(cmd.Context(), opts, NewPostgreSQLManager(cfg), provider); err != nil {
		printStatus(cmd.ErrOrStderr(), statusFail, "generation failed, see log for details")
		return err
	}

	printStatus(cmd.ErrOrStderr(), statusOK, "insert statements written to %s", cfg.Output.Inserts)
	printStatus(cmd.ErrOrStderr(), statusOK, "generator queries written to %s", cfg.Output.Queries)
	return nil
}

// loadOrCreateConfig loads path, or writes the default profile there when
// no file exists yet and reports created=true.
func loadOrCreateConfig(path string) (*config.Config, bool, error) {
	if !config.Exists(path) {
		if err := config.Write(path, config.Default()); err != nil {
			return nil, false, ConfigError("failed to write default configuration", err)
		}
		slog.Warn("configuration file not found, created default", "file", path)
		return nil, true, nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, false, ConfigError("failed to load configuration", err)
	}
	return cfg, false, nil
}

func resolveProvider(registry *providers.ProviderRegistry, name string) (providers.ScriptProvider, error) {
	provider, exists := registry.Get(name)
	if !exists {
		return nil, fmt.Errorf("unknown provider: %s (available: %s)", name, strings.Join(registry.ListAvailable(), ", "))
	}
	if !provider.IsAvailable() {
		return nil, fmt.Errorf("provider '%s' is not available in this environment", name)
	}
	return provider, nil
}

func runInit(cmd *cobra.Command, args []string) error {
	if config.Exists(configPath) && !initForce {
		return ConfigError(fmt.Sprintf("configuration file %s already exists, use --force to overwrite", configPath), nil)
	}

	cfg := config.Default()
	if initInteractive {
		answers, err := promptProfile(cfg)
		if err != nil {
			return GeneralError("interactive setup aborted", err)
		}
		if err := applyProfileAnswers(cfg, answers); err != nil {
			return ConfigError("invalid connection profile", err)
		}
	}

	if err := config.Write(configPath, cfg); err != nil {
		return ConfigError("failed to write configuration", err)
	}

	printStatus(cmd.ErrOrStderr(), statusOK, "configuration written to %s", configPath)
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return ConfigError("failed to load configuration", err)
	}
	return previewTable(cmd.Context(), cmd.OutOrStdout(), cfg.Schema, args[0], NewPostgreSQLManager(cfg))
}

func previewTable(ctx context.Context, w io.Writer, schema, table string, dbManager DatabaseManager) error {
	if err := dbManager.Setup(ctx); err != nil {
		return DBConnectError("failed to connect to database", err)
	}
	defer func() {
		if err := dbManager.Close(ctx); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	plan, err := InspectTable(ctx, dbManager.GetDB(), schema, table)
	if err != nil {
		return GeneralError("failed to inspect table", err)
	}

	fmt.Fprint(w, FormatPlan(plan))
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if config.Exists(configPath) {
		loaded, err := config.Load(configPath)
		if err != nil {
			return ConfigError("failed to load configuration", err)
		}
		cfg = loaded
	}

	opts := verifyOptions{
		MigrationDir: verifyMigrations,
		ScriptPath:   verifyScriptPath,
		Schema:       verifySchema,
	}
	if opts.ScriptPath == "" {
		opts.ScriptPath = cfg.Output.Inserts
	}
	if opts.Schema == "" {
		opts.Schema = cfg.Schema
	}

	counts, err := verifyScript(cmd.Context(), opts, NewFileMigrationReader(), NewSandbox(verifyImage))
	if err != nil {
		return GeneralError("verification failed", err)
	}
	return reportCounts(cmd.ErrOrStderr(), counts)
}

// reportCounts prints one status line per table and fails on any mismatch
func reportCounts(w io.Writer, counts []TableCount) error {
	mismatched := 0
	for _, c := range counts {
		if c.Matches() {
			printStatus(w, statusOK, "%s: %d rows", c.Table, c.Actual)
			continue
		}
		mismatched++
		printStatus(w, statusFail, "%s: expected %d rows, found %d", c.Table, c.Expected, c.Actual)
	}

	if mismatched > 0 {
		return GeneralError(fmt.Sprintf("%d of %d tables do not match their script", mismatched, len(counts)), nil)
	}
	return nil
}
