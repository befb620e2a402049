// Package main provides the CLI entrypoint for hashmarkov.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/hashmarkov/internal/browse"
	"github.com/verte-zerg/hashmarkov/internal/chain"
	"github.com/verte-zerg/hashmarkov/internal/config"
	"github.com/verte-zerg/hashmarkov/internal/corpus"
	"github.com/verte-zerg/hashmarkov/internal/generator"
	"github.com/verte-zerg/hashmarkov/internal/hashtable"
	"github.com/verte-zerg/hashmarkov/internal/model"
	"github.com/verte-zerg/hashmarkov/internal/stats"
	"github.com/verte-zerg/hashmarkov/internal/store"
	"github.com/verte-zerg/hashmarkov/internal/wrap"
)

const (
	defaultCapacity    = 4001
	defaultPrefix      = 2
	defaultWords       = 100
	defaultHistoryLast = 20
)

const (
	errWordCountMsg = "ERROR: specified size of the generated text is less than one"
	errPrefixMsg    = "ERROR: specified prefix size is less than one"
)

var (
	genCapacity  int
	genPrefix    int
	genWords     int
	genSeed      int64
	genWidth     int
	genNoHistory bool

	inspectSlots bool

	historyLast int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hashmarkov [source]",
		Short: "Markov chain text generator",
		Long: "Generate text that resembles a source file.\n\n" +
			"Without a source argument the source path, table capacity, prefix length\n" +
			"and word count are read from stdin, one per line.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runGenerateCmd,
	}

	rootCmd.Flags().IntVar(&genCapacity, "capacity", defaultCapacity, "hash table capacity (must exceed the number of distinct prefixes)")
	rootCmd.Flags().IntVar(&genPrefix, "prefix", defaultPrefix, "prefix length in words")
	rootCmd.Flags().IntVar(&genWords, "words", defaultWords, "number of words to generate")
	rootCmd.Flags().Int64Var(&genSeed, "seed", generator.DefaultSeed, "random seed")
	rootCmd.Flags().IntVar(&genWidth, "width", 0, "wrap output at this many columns instead of 10 words per line")
	rootCmd.Flags().BoolVar(&genNoHistory, "no-history", false, "do not record the run in history")

	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Source = args[0]
	} else {
		if err := readStdinParams(cmd.InOrStdin(), &cfg); err != nil {
			return err
		}
		// The four-line contract always prints 10 words per line.
		if !cmd.Flags().Changed("width") {
			cfg.Width = 0
		}
	}

	out := cmd.OutOrStdout()
	if msg := validationMessage(cfg); msg != "" {
		return writeLine(out, msg)
	}

	started := time.Now()
	words, err := corpus.LoadWords(cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}
	table, err := buildTable(words, cfg)
	if err != nil {
		return err
	}
	generated, err := generator.New(cfg.Seed).Generate(table, cfg.PrefixLen, cfg.Words)
	if err != nil {
		return fmt.Errorf("failed to generate text: %w", err)
	}

	text := formatOutput(generated, cfg.Width)
	if err := writeLine(out, text); err != nil {
		return err
	}

	if !genNoHistory {
		occ, _ := stats.Analyze(table)
		recordRun(model.RunStats{
			StartedAt:  started,
			Source:     cfg.Source,
			Capacity:   cfg.Capacity,
			PrefixLen:  cfg.PrefixLen,
			Words:      cfg.Words,
			Seed:       cfg.Seed,
			SourceLen:  len(words),
			Keys:       table.Len(),
			MaxShift:   occ.MaxShift,
			DurationMs: time.Since(started).Milliseconds(),
			Output:     text,
		})
	}
	return nil
}

// readStdinParams reads source path, capacity, prefix length and word count,
// one per line, in that order.
func readStdinParams(r io.Reader, cfg *model.Config) error {
	scanner := bufio.NewScanner(r)
	next := func(name string) (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("failed to read %s: %w", name, err)
			}
			return "", fmt.Errorf("missing %s on stdin", name)
		}
		return strings.TrimSpace(scanner.Text()), nil
	}
	nextInt := func(name string) (int, error) {
		line, err := next(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", name, line, err)
		}
		return v, nil
	}

	var err error
	if cfg.Source, err = next("source path"); err != nil {
		return err
	}
	if cfg.Capacity, err = nextInt("table capacity"); err != nil {
		return err
	}
	if cfg.PrefixLen, err = nextInt("prefix length"); err != nil {
		return err
	}
	if cfg.Words, err = nextInt("word count"); err != nil {
		return err
	}
	return nil
}

// validationMessage returns the user-facing message for settings that stop
// generation without an error status.
func validationMessage(cfg model.Config) string {
	if cfg.Words < 1 {
		return errWordCountMsg
	}
	if cfg.PrefixLen < 1 {
		return errPrefixMsg
	}
	return ""
}

func buildTable(words []string, cfg model.Config) (*hashtable.Table, error) {
	table, err := hashtable.New(cfg.Capacity)
	if err != nil {
		return nil, fmt.Errorf("--capacity: %w", err)
	}
	if err := chain.Build(words, cfg.PrefixLen, table); err != nil {
		if errors.Is(err, hashtable.ErrTableFull) {
			return nil, fmt.Errorf("failed to build chain: %w (increase --capacity)", err)
		}
		return nil, fmt.Errorf("failed to build chain: %w", err)
	}
	return table, nil
}

func loadTable(cmd *cobra.Command, source string) (*hashtable.Table, model.Config, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	cfg.Source = source
	if cfg.PrefixLen < 1 {
		return nil, cfg, fmt.Errorf("--prefix must be > 0")
	}
	words, err := corpus.LoadWords(cfg.Source)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to read source: %w", err)
	}
	table, err := buildTable(words, cfg)
	if err != nil {
		return nil, cfg, err
	}
	return table, cfg, nil
}

func formatOutput(words []string, width int) string {
	if width > 0 {
		return wrap.Width(words, width)
	}
	return wrap.Lines(words, wrap.WordsPerLine)
}

func recordRun(run model.RunStats) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open history db: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close history db: %v\n", cerr)
		}
	}()
	if _, err := st.InsertRun(context.Background(), run); err != nil {
		logErrf("failed to record run: %v\n", err)
	}
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <source>",
		Short: "Show hash table occupancy for a source",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspectCmd,
	}
	addTableFlags(cmd)
	cmd.Flags().BoolVar(&inspectSlots, "slots", false, "list every occupied slot")
	return cmd
}

func runInspectCmd(cmd *cobra.Command, args []string) error {
	table, _, err := loadTable(cmd, args[0])
	if err != nil {
		return err
	}
	occ, slots := stats.Analyze(table)
	width := stats.TerminalWidth()
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, occ, slots, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !inspectSlots {
		return nil
	}
	if err := writeLine(out, ""); err != nil {
		return err
	}
	if err := stats.RenderSlots(out, slots, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generation runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "number of runs to show (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	runs, err := st.ListRuns(cmd.Context(), historyLast)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return renderHistory(cmd.OutOrStdout(), runs)
}

func renderHistory(w io.Writer, runs []model.RunRecord) error {
	if len(runs) == 0 {
		return writeLine(w, "No runs recorded.")
	}
	for _, run := range runs {
		line := fmt.Sprintf("#%d  %s  %s  M=%d n=%d words=%d seed=%d  keys=%d max-shift=%d  %dms",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Source,
			run.Capacity,
			run.PrefixLen,
			run.Words,
			run.Seed,
			run.Keys,
			run.MaxShift,
			run.DurationMs,
		)
		if err := writeLine(w, line); err != nil {
			return err
		}
	}
	return nil
}

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse <source>",
		Short: "Browse generated text and the table layout",
		Args:  cobra.ExactArgs(1),
		RunE:  runBrowseCmd,
	}
	addTableFlags(cmd)
	cmd.Flags().IntVar(&genWords, "words", defaultWords, "number of words to generate")
	cmd.Flags().Int64Var(&genSeed, "seed", generator.DefaultSeed, "initial random seed")
	return cmd
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	table, cfg, err := loadTable(cmd, args[0])
	if err != nil {
		return err
	}
	if cfg.Words < 1 {
		return fmt.Errorf("--words must be > 0")
	}
	program := tea.NewProgram(browse.NewModel(table, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func addTableFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&genCapacity, "capacity", defaultCapacity, "hash table capacity")
	cmd.Flags().IntVar(&genPrefix, "prefix", defaultPrefix, "prefix length in words")
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resolveConfig merges flag values with the config file. Flags the user set
// explicitly win over file values.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "capacity", &genCapacity, fileCfg.Generate.Capacity)
	applyIntConfig(cmd, "prefix", &genPrefix, fileCfg.Generate.Prefix)
	applyIntConfig(cmd, "words", &genWords, fileCfg.Generate.Words)
	applyInt64Config(cmd, "seed", &genSeed, fileCfg.Generate.Seed)
	applyIntConfig(cmd, "width", &genWidth, fileCfg.Generate.Width)

	return model.Config{
		Capacity:  genCapacity,
		PrefixLen: genPrefix,
		Words:     genWords,
		Seed:      genSeed,
		Width:     genWidth,
	}, nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# hashmarkov configuration
# Uncomment a value to enable it. CLI flags override config values.

[generate]
# capacity = %d         # Hash table capacity; keep it above the number of distinct prefixes
# prefix = %d              # Prefix length in words
# words = %d             # Words to generate
# seed = %d                # Random seed
# width = 0               # Wrap at this many columns (0 = 10 words per line)
`,
		defaultCapacity,
		defaultPrefix,
		defaultWords,
		generator.DefaultSeed,
	)
}

func writeLine(w io.Writer, line string) error {
	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
