package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kamal-hamza/docup/internal/adapters/extractor"
	"github.com/kamal-hamza/docup/internal/adapters/picker"
	"github.com/kamal-hamza/docup/internal/adapters/repository"
	"github.com/kamal-hamza/docup/internal/core/domain"
	"github.com/kamal-hamza/docup/internal/core/services"
	"github.com/kamal-hamza/docup/pkg/config"
	"github.com/kamal-hamza/docup/pkg/logging"
	"github.com/kamal-hamza/docup/pkg/ui"
	"github.com/kamal-hamza/docup/pkg/vault"
)

// skipValidation marks commands that must work with an incomplete configuration
const skipValidation = "skip-validation"

var (
	// Global instances
	appVault  *vault.Vault
	appConfig *config.Config
	logger    *log.Logger

	// Adapters
	fileSource      *picker.FileSystemSource
	extractorClient *extractor.Client
	resultRepo      *repository.FileResultRepository

	// Services
	selectionService *services.SelectionService
	uploadService    *services.UploadService

	// Global flags
	envFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docup",
	Short: "docup - upload documents to the text-extraction service",
	Long: ui.StyleTitle.Render("docup") + " - Document Upload Client\n\n" +
		"Select documents and images, filter them against the accepted types\n" +
		"and upload them one at a time to the text-extraction service.",
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(widgetCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("api-url", "", "base URL of the extraction service (env DOCUP_API_URL)")
	flags.String("api-key", "", "API key sent with every request (env DOCUP_API_KEY)")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	viper.SetEnvPrefix("DOCUP")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = viper.BindPFlag("api_key", flags.Lookup("api-key"))
}

// initializeApp loads configuration and wires adapters into services
func initializeApp(cmd *cobra.Command, args []string) error {
	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	v, err := vault.New()
	if err != nil {
		return fmt.Errorf("failed to initialize data directories: %w", err)
	}
	appVault = v

	cfg, err := config.Load(appVault.ConfigPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg)
	appConfig = cfg

	ui.SetTheme(appConfig.ColorTheme)

	level := appConfig.LogLevel
	if verbose {
		level = "debug"
	}
	logger = logging.New(level, os.Stderr)

	if cmd.Annotations[skipValidation] == "" {
		if err := appConfig.Validate(); err != nil {
			return fmt.Errorf("invalid configuration (%s): %w", appVault.ConfigPath, err)
		}
	}
	if appConfig.APIKey == "" {
		logger.Debug("no API key configured")
	}

	appVault.UseResultsDir(appConfig.ResultsDir)
	wireServices()
	return nil
}

// loadEnvFile reads a dotenv file if present; existing variables win
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// applyOverrides lets DOCUP_* variables and flags take precedence over the file
func applyOverrides(cfg *config.Config) {
	if s := viper.GetString("api_url"); s != "" {
		cfg.APIURL = s
	}
	if s := viper.GetString("api_key"); s != "" {
		cfg.APIKey = s
	}
	if s := viper.GetString("endpoint_path"); s != "" {
		cfg.EndpointPath = s
	}
	if s := viper.GetString("progress_mode"); s != "" {
		cfg.ProgressMode = s
	}
	if s := viper.GetString("log_level"); s != "" {
		cfg.LogLevel = s
	}
	if s := viper.GetString("results_dir"); s != "" {
		cfg.ResultsDir = s
	}
}

func wireServices() {
	fileSource = picker.NewFileSystemSource()
	extractorClient = extractor.NewClient(appConfig.APIURL, appConfig.APIKey,
		extractor.WithEndpointPath(appConfig.EndpointPath),
		extractor.WithTimeout(appConfig.RequestTimeout()),
	)
	resultRepo = repository.NewFileResultRepository(appVault)

	allowed := domain.NewAllowedTypeSet(appConfig.AllowedTypes)
	selectionService = services.NewSelectionService(allowed, fileSource, logger)

	opts := []services.UploadOption{
		services.WithLogger(logger),
		services.WithProgressMode(services.ParseProgressMode(appConfig.ProgressMode)),
	}
	if appConfig.SaveResults {
		opts = append(opts, services.WithResultRepository(resultRepo))
	}
	uploadService = services.NewUploadService(extractorClient, opts...)
}

// getContext returns a context cancelled on interrupt
func getContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
