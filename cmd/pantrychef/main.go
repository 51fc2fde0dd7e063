// PantryChef — a terminal client for the recipe service.
//
// Usage:
//
//	pantrychef [-api-url URL] [-verbose] [-quiet]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"pantrychef/internal/api"
	"pantrychef/internal/display"
	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
	"pantrychef/internal/session"
	"pantrychef/internal/storage"
	"pantrychef/internal/workflow"
)

// Env var names, overridable by flags.
const (
	envAPIURL  = "PANTRYCHEF_API_URL"
	envStateDB = "PANTRYCHEF_STATE_DB"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".pantrychef/pantrychef.log", "file to write logs to (use \"stderr\" to log to console)")
	apiURL := flag.String("api-url", "", "base URL of the recipe service (overrides "+envAPIURL+")")
	stateDB := flag.String("state-db", "", "path to the local state database (overrides "+envStateDB+")")
	timeout := flag.Duration("timeout", 30*time.Second, "HTTP timeout for service calls (0 disables)")
	flag.Parse()

	// Configure logger.
	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the TUI stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	log := logger.New(logLevel, logOut)

	// Resolve config: flags win over env, env over defaults.
	baseURL := *apiURL
	if baseURL == "" {
		baseURL = os.Getenv(envAPIURL)
	}
	if baseURL == "" {
		baseURL = api.DefaultBaseURL
	}

	dbPath := *stateDB
	if dbPath == "" {
		dbPath = os.Getenv(envStateDB)
	}
	if dbPath == "" {
		dbPath = defaultStatePath()
	}

	// Wire dependencies. If the state database cannot be opened the client
	// still runs; sessions just won't survive a restart.
	var creds domain.CredentialStore
	if sqlStore, err := storage.OpenSQLite(dbPath, log); err != nil {
		log.Error("state db unavailable, session will not persist: %v", err)
		creds = storage.NewMemoryStore(log)
	} else {
		creds = sqlStore
		defer sqlStore.Close()
	}

	var clientOpts []api.ClientOption
	if *timeout > 0 {
		clientOpts = append(clientOpts, api.WithHTTPTimeout(*timeout))
	}
	client := api.New(baseURL, log, clientOpts...)
	store := session.New(client, creds, log)
	client.AuthorizeWith(store)

	pantry := workflow.NewPantry(client, log)
	suggestions := workflow.NewSuggestions(client, log)

	log.Info("pantrychef starting (api=%s)", baseURL)

	model := display.New(display.Deps{
		Store:       store,
		Gateway:     client,
		Pantry:      pantry,
		Suggestions: suggestions,
		Log:         log,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		log.Error("display: %v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// defaultStatePath puts the state database under the user config dir,
// falling back to the working directory when that is unavailable.
func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".pantrychef/state.db"
	}
	full := filepath.Join(dir, "pantrychef")
	os.MkdirAll(full, 0o755)
	return filepath.Join(full, "state.db")
}
