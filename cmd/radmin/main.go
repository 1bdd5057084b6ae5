// Package main is the entry point for the referral platform admin console.
// It loads configuration, starts the services and runs the Bubble Tea program.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/app"
	"github.com/j-veylop/referral-admin-tui/internal/config"
	"github.com/j-veylop/referral-admin-tui/internal/logger"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/services"
	"github.com/j-veylop/referral-admin-tui/internal/services/auth"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/activity"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/admins"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/balances"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/calls"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/dashboard"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/info"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/referrals"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/settings"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/users"
	"github.com/j-veylop/referral-admin-tui/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "-v", "--version":
			fmt.Println(version.Info())
			os.Exit(0)
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		case "verify-email", "set-password":
			if err := runAccountCommand(os.Args[1], os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s\n", api.Message(err))
				os.Exit(1)
			}
			os.Exit(0)
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startServices loads the configuration, points the logger at the log file
// and starts the service manager. The returned cleanup closes both.
func startServices() (*config.Config, *services.Manager, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := logger.OpenFile(cfg.LogPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.Init(cfg.Environment, logFile)
	logger.Info("starting", "version", version.GetVersion(), "api", cfg.APIBaseURL, "env", cfg.Environment)

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		_ = logFile.Close()
		return nil, nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	cleanup := func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
		_ = logFile.Close()
	}
	return cfg, svcManager, cleanup, nil
}

// run starts the TUI and blocks until it exits.
func run() error {
	cfg, svcManager, cleanup, err := startServices()
	if err != nil {
		return err
	}
	defer cleanup()

	model := app.NewModel(svcManager)

	// Tabs are listed in TabID order.
	commands := model.GetCommands()
	model.SetTabs([]app.Tab{
		dashboard.New(commands),
		users.New(commands),
		admins.New(commands),
		calls.New(commands),
		referrals.New(commands),
		balances.New(commands),
		settings.New(commands),
		activity.New(commands),
		info.New(commands, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// runAccountCommand handles the invitation commands that work without a
// session.
func runAccountCommand(name string, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return fmt.Errorf("usage: radmin %s <token>", name)
	}
	token := args[0]

	_, svcManager, cleanup, err := startServices()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(svcManager.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var message string
	switch name {
	case "verify-email":
		message, err = auth.VerifyEmail(ctx, svcManager.Client(), token)
	case "set-password":
		message, err = setPassword(ctx, svcManager, token)
	}
	if err != nil {
		return err
	}
	if message == "" {
		message = "Done"
	}
	fmt.Println(message)
	return nil
}

func setPassword(ctx context.Context, svcManager *services.Manager, token string) (string, error) {
	password, confirm, err := promptPassword()
	if err != nil {
		return "", err
	}
	return auth.SetPassword(ctx, svcManager.Client(), models.SetPasswordRequest{
		Token:           token,
		Password:        password,
		ConfirmPassword: confirm,
	})
}

// errCancelled is returned when the password prompt is dismissed.
var errCancelled = errors.New("cancelled")

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`radmin - Admin console for the referral and calling platform

Usage:
  radmin [flags]
  radmin verify-email <token>   Confirm an email address
  radmin set-password <token>   Accept an invitation and choose a password

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-9             Switch between tabs
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  [ / ]           Previous / next page
  /               Search
  Enter           Open details
  r               Refresh data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  API_BASE_URL            Backend base URL (required)
  APP_ENV                 development enables request logging
  REQUEST_TIMEOUT         Per-request timeout (default: 30s)
  RATE_LIMIT, RATE_BURST  Client-side request rate limit
  PAGE_SIZE               Rows per page (default: 20)
  SESSION_PATH            Session file path
  DATABASE_PATH           Local activity database path
  LOG_PATH                Log file path
  EXPORT_DIR              Where downloaded exports are saved

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/referral-admin/.env
  - ~/.referral-admin/.env`)
}
