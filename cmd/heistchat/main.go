package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"heistchat/cmd/heistchat/tui"
	"heistchat/internal/chat"
	"heistchat/internal/config"
	"heistchat/internal/export"
	"heistchat/internal/generation"
	"heistchat/internal/logging"
	"heistchat/internal/persona"
	"heistchat/internal/progress"
	"heistchat/internal/search"
	"heistchat/internal/store"
)

var (
	// Global flags
	verbose    bool
	configHome string

	// Logger for non-interactive subcommands
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "heistchat",
	Short: "heistchat - a heist-crew chat for Gemini",
	Long: `heistchat is a themed chat client for Google Gemini.

Conversations are held with unlockable crew personas, tracked with XP,
levels, and daily streaks, and saved to a local searchable history.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "heistchat" && cmd.CalledAs() == "heistchat" {
			return nil
		}

		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		entries := app.history.Entries()
		if len(entries) == 0 {
			fmt.Println(persona.T(app.ctrl.Language().Code).NoChatHistory)
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-16s  %-50s  %3d messages  %s\n",
				e.ID, e.Title, len(e.Messages), e.LastActivity.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search saved conversations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		query := strings.Join(args, " ")
		results := search.Search(app.history.Entries(), query)
		logger.Debug("search complete", zap.String("query", query), zap.Int("results", len(results)))

		if len(results) == 0 {
			fmt.Println(persona.T(app.ctrl.Language().Code).NoResults)
			return nil
		}
		for _, r := range results {
			fmt.Printf("[%d] %s (chat %s)\n    %s\n", r.Score, r.ChatTitle, r.ChatID, r.Snippet)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show XP, level, and streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		p := app.ctrl.Progress()
		into, span, percent := progress.ProgressInLevel(p)
		fmt.Printf("Level %d (%d XP, %d/%d to next, %d%%)\n", p.Level, p.XP, into, span, percent)
		fmt.Printf("Streak: %d days (last active %s)\n", p.Streak, p.LastActiveDay)
		fmt.Printf("Messages sent: %d, replies: %d, deep think: %d, files: %d\n",
			p.MessagesSent, p.RepliesGot, p.DeepThinkUses, p.FilesUploaded)
		fmt.Printf("Saved chats: %d\n", app.history.Len())
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [chat-id]",
	Short: "Export a conversation, or everything with --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		dir, _ := cmd.Flags().GetString("dir")
		all, _ := cmd.Flags().GetBool("all")

		if all {
			path, err := export.WriteSnapshot(dir, app.ctrl.Progress(), app.history.Entries())
			if err != nil {
				return err
			}
			logger.Info("snapshot written", zap.String("path", path))
			fmt.Println(path)
			return nil
		}

		if len(args) != 1 {
			return fmt.Errorf("expected a chat id or --all")
		}
		entry, ok := app.history.Get(args[0])
		if !ok {
			return fmt.Errorf("chat not found: %s", args[0])
		}
		path, err := export.WriteTranscript(dir, entry)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List personas and unlock levels",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		level := app.ctrl.Progress().Level
		lang := app.ctrl.Language().Code
		for _, p := range persona.All() {
			lock := ""
			if p.UnlockLevel > level {
				lock = fmt.Sprintf("  [locked until level %d]", p.UnlockLevel)
			}
			fmt.Printf("%s %-12s %-20s %s%s\n", p.Emoji, p.ID, p.Name.For(lang), p.Specialty, lock)
		}
		return nil
	},
}

var translateCmd = &cobra.Command{
	Use:   "translate [language] [text]",
	Short: "Translate text with the configured model",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.HasAPIKey() {
			return fmt.Errorf("GEMINI_API_KEY is not configured")
		}
		client := generation.NewGeminiClient(generationConfig(cfg))
		fmt.Println(client.Translate(context.Background(), strings.Join(args[1:], " "), args[0]))
		return nil
	},
}

// app bundles the shared state the subcommands need.
type app struct {
	cfg     *config.Config
	store   *store.Store
	history *chat.History
	tracker *progress.Tracker
	ctrl    *chat.Controller
}

func (a *app) Close() {
	a.store.Close()
	logging.CloseAll()
}

func homeDir() string {
	if configHome != "" {
		return configHome
	}
	return config.DefaultHome()
}

func configPath() string {
	return filepath.Join(homeDir(), "config.yaml")
}

func loadConfig() (*config.Config, error) {
	if err := logging.Initialize(homeDir()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging unavailable: %v\n", err)
	}
	return config.Load(configPath())
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	s, err := store.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, err
	}

	history, err := chat.LoadHistory(s)
	if err != nil {
		s.Close()
		return nil, err
	}

	var saved progress.UserProgress
	if ok, err := s.GetJSON(store.KeyUserProgress, &saved); err != nil || !ok {
		saved = progress.DefaultProgress()
	}
	tracker := progress.NewTracker(saved, func(p progress.UserProgress) error {
		return s.PutJSON(store.KeyUserProgress, p)
	})

	gen := generation.NewService(generationConfig(cfg))
	ctrl := chat.NewController(history, tracker, gen, s)

	return &app{cfg: cfg, store: s, history: history, tracker: tracker, ctrl: ctrl}, nil
}

func runInteractive() error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	model := tui.New(app.ctrl, app.cfg)
	app.tracker.OnLevelUp(model.NotifyLevelUp)

	// Reload config (and logging levels) when the file changes on disk.
	watcher, err := config.NewWatcher(configPath(), func(cfg *config.Config) {
		logging.Boot("Configuration reloaded")
	})
	if err != nil {
		logging.BootError("Config watcher unavailable: %v", err)
	} else {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := watcher.Start(ctx); err != nil {
			logging.BootError("Config watcher failed to start: %v", err)
		}
		defer watcher.Stop()
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func generationConfig(cfg *config.Config) generation.Config {
	return generation.Config{
		APIKey:  cfg.Generation.APIKey,
		Model:   cfg.Generation.Model,
		BaseURL: cfg.Generation.BaseURL,
		Timeout: cfg.GetGenerationTimeout(),
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging for subcommands")
	rootCmd.PersistentFlags().StringVar(&configHome, "home", "", "override the config/data directory")

	exportCmd.Flags().String("dir", ".", "output directory")
	exportCmd.Flags().Bool("all", false, "export everything as one backup file")

	rootCmd.AddCommand(historyCmd, searchCmd, statsCmd, exportCmd, personasCmd, translateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
