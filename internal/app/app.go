package app

import (
	"context"
	"fmt"
	"syscall"

	"github.com/andy/invoicewiz/internal/config"
	"github.com/andy/invoicewiz/internal/crypto"
	"github.com/andy/invoicewiz/internal/db"
	"github.com/andy/invoicewiz/internal/i18n"
	"github.com/andy/invoicewiz/internal/logging"
	"github.com/andy/invoicewiz/internal/pdf"
	"github.com/andy/invoicewiz/internal/repository"
	"github.com/andy/invoicewiz/internal/service"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Options are the process-level switches from the command line.
type Options struct {
	ConfigPath string // defaults to config.DefaultConfigPath()
	Verbose    bool
}

// App is the dependency injection container for all application components
type App struct {
	Config     *config.Config
	ConfigPath string
	DB         *db.DB
	Logger     *zap.Logger
	Messages   i18n.Messages

	// Repositories
	InvoiceRepo repository.InvoiceRepository
	ProfileRepo repository.ProfileRepository

	// Services
	Renderer       *pdf.Renderer
	InvoiceService service.InvoiceService
}

// New loads the config file and builds the App from it.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultConfigPath()
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg, opts)
}

// NewWithConfig creates an App with a provided config (useful for testing).
// It prompts for a database password when the keyring holds none.
func NewWithConfig(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	msgs, err := i18n.Load(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	password, err := databaseKey(crypto.NewKeyring())
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Built last so no failure path leaves an unsynced log file behind.
	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Verbose: opts.Verbose,
	})
	if err != nil {
		database.Close()
		return nil, err
	}

	invoiceRepo := repository.NewInvoiceRepo(database)
	profileRepo := repository.NewProfileRepo(database)
	renderer := pdf.New(msgs)

	invoiceService := service.NewInvoiceService(invoiceRepo, profileRepo, renderer,
		serviceOptions(cfg), logger.Named("service"))

	logger.Debug("app initialized",
		zap.String("database", cfg.Database.Path),
		zap.String("locale", msgs.Locale()),
	)

	return &App{
		Config:         cfg,
		ConfigPath:     opts.ConfigPath,
		DB:             database,
		Logger:         logger,
		Messages:       msgs,
		InvoiceRepo:    invoiceRepo,
		ProfileRepo:    profileRepo,
		Renderer:       renderer,
		InvoiceService: invoiceService,
	}, nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// ConfigFile returns the path the config is saved to.
func (a *App) ConfigFile() string {
	if a.ConfigPath == "" {
		return config.DefaultConfigPath()
	}
	return a.ConfigPath
}

// SaveConfig writes the current configuration back to its file and applies
// it to the running components.
func (a *App) SaveConfig() error {
	if err := a.Config.Save(a.ConfigFile()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return a.ApplyConfig()
}

// ApplyConfig pushes the current configuration into the running components.
// The message catalog is reloaded when the locale changed.
func (a *App) ApplyConfig() error {
	if a.Config.Locale != a.Messages.Locale() {
		msgs, err := i18n.Load(a.Config.Locale)
		if err != nil {
			return err
		}
		a.Messages = msgs
		if a.Renderer != nil {
			a.Renderer.SetMessages(msgs)
		}
	}
	if a.InvoiceService != nil {
		a.InvoiceService.SetOptions(serviceOptions(a.Config))
	}
	return nil
}

func serviceOptions(cfg *config.Config) service.Options {
	return service.Options{
		NumberPrefix:   cfg.Invoice.NumberPrefix,
		Currency:       cfg.Invoice.Currency,
		RememberIssuer: cfg.Invoice.RememberIssuer,
	}
}

func databaseKey(keyring crypto.Keyring) (string, error) {
	password, err := keyring.GetKey()
	if err == nil {
		return password, nil
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no database key available: %w", err)
	}

	fmt.Println("Setting up database encryption for the first time...")
	password, err = promptForPassword()
	if err != nil {
		return "", fmt.Errorf("failed to set password: %w", err)
	}
	if err := keyring.SetKey(password); err != nil {
		return "", fmt.Errorf("failed to store encryption key: %w", err)
	}
	return password, nil
}

// promptForPassword prompts user for a new database password (first run)
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your invoices will be stored in an encrypted database.")
	fmt.Println("The password is kept in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println("Database encryption configured.")
	fmt.Println()
	return string(password), nil
}
