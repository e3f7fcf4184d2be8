package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TobiSchelling/NewsLens/internal/analysis"
	"github.com/TobiSchelling/NewsLens/internal/collect"
	"github.com/TobiSchelling/NewsLens/internal/config"
	"github.com/TobiSchelling/NewsLens/internal/database"
	"github.com/TobiSchelling/NewsLens/internal/logger"
	"github.com/TobiSchelling/NewsLens/internal/pipeline"
	"github.com/TobiSchelling/NewsLens/internal/report"
	"github.com/TobiSchelling/NewsLens/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the root command and returns the process exit code. The
// logger is flushed before returning so nothing is lost on failure.
func run(args []string) int {
	defer logger.Sync()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

var rootCmd = &cobra.Command{
	Use:     "newslens",
	Short:   "News text analysis",
	Long:    "NewsLens summarizes news texts, extracts keywords, classifies sentiment, tags countries and reports statistics over stored analyses.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return logger.Init(logLevel("info"), "")
		}

		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}
		return logger.Init(logLevel(cfg.Logging.Level), cfg.Logging.File)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

func logLevel(configured string) string {
	if verbose {
		return "debug"
	}
	return configured
}

// loadConfig reads the resolved config file. Without an explicit --config and
// without any file on disk the embedded defaults are used.
func loadConfig() (*config.Config, error) {
	path, err := config.ResolveConfigPath(configPath)
	if err != nil {
		if configPath != "" {
			return nil, err
		}
		return config.Default()
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return c, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newslens", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/newslens/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure stopwords, countries, channels and feeds.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Database: %s\n\n", db.Path())
		fmt.Println("Analyses:")
		fmt.Printf("  Total: %d\n", stats.TotalAnalyses)
		fmt.Printf("  Positive: %d\n", stats.Positive)
		fmt.Printf("  Neutral: %d\n", stats.Neutral)
		fmt.Printf("  Negative: %d\n", stats.Negative)
		fmt.Printf("  From URLs: %d\n", stats.FromURL)
		fmt.Println("\nCoverage:")
		fmt.Printf("  Categories: %d\n", stats.Categories)
		fmt.Printf("  Months with data: %d\n", stats.Months)
		fmt.Printf("\nFeeds configured: %d\n", len(cfg.Sources.Feeds))
		return nil
	},
}

// --- analyze command ---

var (
	analyzeText     string
	analyzeFile     string
	analyzeURL      string
	analyzeCategory string
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a news text, file or URL and store the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		text := analyzeText
		if analyzeFile != "" {
			data, err := readInput(cmd.InOrStdin(), analyzeFile)
			if err != nil {
				return err
			}
			text = string(data)
		}

		db, err := openDB()
		if err != nil {
			return err
		}

		pipe := pipeline.FromConfig(cfg, db)
		out, err := pipe.Submit(cmd.Context(), pipeline.Submission{
			Text:     text,
			URL:      analyzeURL,
			Category: analyzeCategory,
		})
		if errors.Is(err, pipeline.ErrNoContent) {
			return errors.New("no text provided or extracted; use --text, --file or --url")
		}
		var storageErr *database.StorageError
		if err != nil && !errors.As(err, &storageErr) {
			return err
		}

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(map[string]any{
				"analysis": out.Record,
				"keywords": out.Keywords,
				"country":  out.Country,
				"polarity": out.Polarity,
			}); encErr != nil {
				return encErr
			}
		} else {
			printOutcome(out)
		}

		if storageErr != nil {
			return fmt.Errorf("analysis not saved: %w", storageErr)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeText, "text", "t", "", "Text to analyze")
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Read text from file ('-' for stdin)")
	analyzeCmd.Flags().StringVarP(&analyzeURL, "url", "u", "", "Fetch the article at this URL")
	analyzeCmd.Flags().StringVar(&analyzeCategory, "category", "", "Channel or category label")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the result as JSON")
	analyzeCmd.MarkFlagsMutuallyExclusive("text", "file")
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

func printOutcome(out *pipeline.Outcome) {
	rec := out.Record
	if rec.ID > 0 {
		fmt.Printf("Analysis #%d (%s)\n", rec.ID, rec.Timestamp)
	}
	if out.FetchErr != nil {
		fmt.Printf("  URL could not be read, analyzed the given text instead: %v\n", out.FetchErr)
	}
	if rec.Category != "" {
		fmt.Printf("  Category:  %s\n", rec.Category)
	}
	fmt.Printf("  Country:   %s\n", out.Country)
	fmt.Printf("  Sentiment: %s (%.2f)\n", rec.Sentiment, out.Polarity)
	fmt.Printf("\nSummary:\n  %s\n", rec.Summary)
	fmt.Println("\nKeywords:")
	for _, kw := range out.Keywords {
		fmt.Printf("  %-20s %d\n", kw.Word, kw.Count)
	}
}

// --- collect command ---

var collectDaysBack int

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Analyze new articles from the configured feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Sources.Feeds) == 0 {
			fmt.Println("No feeds configured.")
			return nil
		}

		db, err := openDB()
		if err != nil {
			return err
		}

		fmt.Println("Collecting articles from feeds...")
		pipe := pipeline.FromConfig(cfg, db)
		result, err := pipe.CollectFeeds(cmd.Context(), collect.NewFeedParserFromConfig(cfg), collectDaysBack)
		if err != nil {
			return fmt.Errorf("collecting: %w", err)
		}

		fmt.Println("\nCollection complete:")
		fmt.Printf("  Total found: %d\n", result.Found)
		fmt.Printf("  Analyzed: %d\n", result.Analyzed)
		fmt.Printf("  Already analyzed: %d\n", result.Skipped)
		fmt.Printf("  Failed: %d\n", result.Failed)

		if len(result.Sources) > 0 {
			fmt.Println("\nAnalyses by source:")
			// Sort sources by count descending
			type kv struct {
				key string
				val int
			}
			var sorted []kv
			for k, v := range result.Sources {
				sorted = append(sorted, kv{k, v})
			}
			sort.Slice(sorted, func(i, j int) bool { return sorted[i].val > sorted[j].val })
			for _, s := range sorted {
				fmt.Printf("  %s: %d\n", s.key, s.val)
			}
		}
		return nil
	},
}

func init() {
	collectCmd.Flags().IntVar(&collectDaysBack, "days-back", 1, "Lookback window (days)")
}

// --- stats command ---

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print statistics over all stored analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		rep, err := report.Build(cmd.Context(), db, cfg.Analysis.Channels)
		if err != nil {
			return err
		}

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		fmt.Print(report.Markdown(rep))
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the report as JSON")
}

// --- history command ---

var (
	historyLimit     int
	historySentiment string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			sentiment analysis.Sentiment
			filtered  bool
		)
		if historySentiment != "" {
			var ok bool
			sentiment, ok = analysis.ParseSentiment(historySentiment)
			if !ok {
				return fmt.Errorf("unknown sentiment %q, want one of %v", historySentiment, analysis.Sentiments)
			}
			filtered = true
		}

		db, err := openDB()
		if err != nil {
			return err
		}

		var records []database.Analysis
		if filtered {
			records, err = db.GetRecentAnalysesBySentiment(cmd.Context(), sentiment, historyLimit)
		} else {
			records, err = db.GetRecentAnalyses(cmd.Context(), historyLimit)
		}
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No analyses yet. Run 'newslens analyze' to add one.")
			return nil
		}

		for _, rec := range records {
			category := rec.Category
			if category == "" {
				category = "-"
			}
			fmt.Printf("#%-5d %s  %-12s %-8s %s\n", rec.ID, rec.Timestamp, category, rec.Sentiment, truncate(rec.Summary, 60))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of analyses to show")
	historyCmd.Flags().StringVarP(&historySentiment, "sentiment", "s", "", "Only show analyses with this sentiment")
}

func truncate(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n-3]) + "..."
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		fmt.Printf("Starting server at http://127.0.0.1:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, pipeline.FromConfig(cfg, db), cfg.Analysis.Channels, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
}

func openDB() (*database.DB, error) {
	db, err := database.Open(cfg.DBPath())
	if err != nil {
		return nil, err
	}
	logger.Debug("opened database", zap.String("path", db.Path()))
	return db, nil
}
