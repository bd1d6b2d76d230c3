// portkit — ports Inware translations from the legacy key naming scheme to
// the 2025 key set, archiving the pre-port files before anything is rewritten.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/inware-app/portkit/config"
	"github.com/inware-app/portkit/i18n"
	"github.com/inware-app/portkit/manifest"
	"github.com/inware-app/portkit/mapping"
	"github.com/inware-app/portkit/notify"
	"github.com/inware-app/portkit/port"
	"github.com/inware-app/portkit/resfile"
	"github.com/inware-app/portkit/settings"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "portkit",
		Short: "Port Inware translations from legacy keys to the 2025 key set",
		Long: `portkit — ports Inware translations from legacy keys to the 2025 key set.

For each language, the pre-port values-XX folder is moved into legacy/ as an
immutable archive, and a fresh strings.xml is generated from the base file
with previously translated text carried over wherever the mapping table knows
the legacy key. Translations with no legacy match keep their current text, or
fall back to the base English default.

Commands:
  port        Port one language to the 2025 key set
  status      Show detected languages and port progress
  notify      Announce new strings to the translators' Telegram chat
  auth        Manage stored Telegram credentials
  version     Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Translations repository root directory")

	root.AddCommand(
		newPortCmd(),
		newStatusCmd(),
		newNotifyCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("portkit version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// port (archive legacy folder + generate ported strings.xml)
// ---------------------------------------------------------------------------

func newPortCmd() *cobra.Command {
	var opts portOptions

	cmd := &cobra.Command{
		Use:   "port <language>",
		Short: "Port one language to the 2025 key set",
		Long: `Port a language's translation from legacy keys to the 2025 key set.

The language is a BCP 47 identifier matching the values folder suffix, e.g.
'pt-BR' for values-pt-rBR. The pre-port folder is moved to legacy/ first;
a run aborts if that archive destination is already occupied.

For every (new_key, old_key) row of the mapping table, the new key receives
the legacy translation when one exists, otherwise the language's current
translation of the new key, otherwise the base English default. Current
translations unknown to the mapping table are carried forward as long as the
key still exists in the base file and doesn't use the reserved legacy_ prefix.

The new strings.xml is fully computed and written to a temporary file before
the archive move, so an interrupted run never leaves a half-ported folder.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPort(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.mappingFile, "mapping", "", "Mapping CSV path (default from .portkit.yaml)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Resolve and report without touching any file")

	return cmd
}

type portOptions struct {
	mappingFile string
	dryRun      bool
}

func runPort(lang string, opts portOptions) error {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return err
	}

	transDir := cfg.AbsTranslationsDir(rootDir)
	basePath := resfile.BaseStringsPath(transDir)
	langDir := filepath.Join(transDir, resfile.ValuesDirName(lang))
	langStringsPath := filepath.Join(langDir, "strings.xml")
	legacyDir := filepath.Join(cfg.AbsLegacyDir(rootDir), resfile.ValuesDirName(lang))

	mappingPath := cfg.AbsMappingFile(rootDir)
	if opts.mappingFile != "" {
		mappingPath = opts.mappingFile
	}

	// Preconditions — all checked before anything is touched.
	if !fileExists(basePath) {
		return fmt.Errorf("missing base translation file: %s", basePath)
	}
	if !dirExists(langDir) {
		return fmt.Errorf("translation folder %s does not exist", langDir)
	}
	if pathExists(legacyDir) {
		return fmt.Errorf("legacy destination %s already exists, please move or remove it first", legacyDir)
	}
	if !fileExists(mappingPath) {
		return fmt.Errorf("mapping file %s is missing", mappingPath)
	}
	if !fileExists(langStringsPath) {
		return fmt.Errorf("legacy strings file missing at %s", langStringsPath)
	}

	// Read everything up front; nothing is written until the full output
	// text exists.
	langData, err := os.ReadFile(langStringsPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", langStringsPath, err)
	}
	baseData, err := os.ReadFile(basePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", basePath, err)
	}

	logInfo("Loading mapping from %s", mappingPath)
	pairs, err := mapping.Load(mappingPath)
	if err != nil {
		return err
	}

	// The pre-port file serves as both lookup tables: legacy bodies are
	// addressed by old key, kept translations by new key.
	current := resfile.Extract(string(langData))

	baseContent := string(baseData)
	defaults := resfile.Extract(baseContent)
	targets := make(map[string]bool, len(defaults))
	for key := range defaults {
		targets[key] = true
	}

	replacements, stats := port.Resolve(pairs, current, current, targets, defaults)
	output := resfile.Rewrite(baseContent, replacements)

	if opts.dryRun {
		reportStats(stats)
		logInfo("%s", i18n.T("Dry run — no files were changed."))
		return nil
	}

	// Stage the result next to its final location, then archive. The move is
	// the first irreversible step and happens only when the output is ready.
	tmp, err := os.CreateTemp(transDir, "strings-*.xml")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := tmp.WriteString(output); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(legacyDir), 0755); err != nil {
		return fmt.Errorf("creating legacy directory: %w", err)
	}

	logInfo("Moving %s -> %s", langDir, legacyDir)
	if err := os.Rename(langDir, legacyDir); err != nil {
		return fmt.Errorf("archiving %s: %w", langDir, err)
	}

	logInfo("Creating fresh folder %s", langDir)
	if err := os.MkdirAll(langDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", langDir, err)
	}
	if err := os.Rename(tmpPath, langStringsPath); err != nil {
		return fmt.Errorf("writing %s: %w", langStringsPath, err)
	}

	recordPort(lang, legacyDir, stats)
	reportStats(stats)
	logSuccess("%s", i18n.T("Port complete!"))

	return nil
}

// recordPort appends the run to portkit.lock. Failing to update the audit
// log doesn't undo a completed port, so problems only warn.
func recordPort(lang, legacyDir string, stats *port.Stats) {
	mf, err := manifest.Load(rootDir)
	if err != nil {
		logWarning("Cannot read %s: %v", manifest.FileName, err)
		return
	}

	archive := legacyDir
	if rel, err := filepath.Rel(rootDir, legacyDir); err == nil {
		archive = filepath.ToSlash(rel)
	}

	mf.Set(lang, manifest.Record{
		PortedAt:         time.Now().UTC(),
		Applied:          stats.Applied,
		FallbackExisting: stats.FallbackExisting,
		FallbackDefault:  stats.FallbackDefault,
		MissingOld:       len(stats.MissingOld),
		MissingNew:       len(stats.MissingNew),
		Archive:          archive,
	})
	if err := mf.Save(); err != nil {
		logWarning("Cannot update %s: %v", manifest.FileName, err)
	}
}

// reportStats prints the resolution summary. Only the applied count is
// printed unconditionally; the rest appear when non-zero.
func reportStats(stats *port.Stats) {
	fmt.Printf(i18n.T("Applied %d translations.")+"\n", stats.Applied)
	if stats.FallbackExisting > 0 {
		fmt.Printf(i18n.T("Kept %d existing translations where no legacy match was found.")+"\n", stats.FallbackExisting)
	}
	if stats.FallbackDefault > 0 {
		fmt.Printf(i18n.T("Used base English defaults for %d strings with no translation.")+"\n", stats.FallbackDefault)
	}
	if len(stats.MissingOld) > 0 {
		fmt.Printf(i18n.T("Skipped %d missing legacy keys.")+"\n", len(stats.MissingOld))
	}
	if len(stats.MissingNew) > 0 {
		fmt.Printf(i18n.T("Skipped %d unknown new keys.")+"\n", len(stats.MissingNew))
	}
}

// ---------------------------------------------------------------------------
// status (read-only: detected languages + port progress)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show detected languages and port progress",
		Long: `Show the languages present in the translations repository, their entry
counts against the base file, and which of them have already been ported
according to portkit.lock. Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}

	return cmd
}

func runStatus() error {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return err
	}

	transDir := cfg.AbsTranslationsDir(rootDir)
	basePath := resfile.BaseStringsPath(transDir)
	if !fileExists(basePath) {
		return fmt.Errorf("missing base translation file: %s", basePath)
	}

	baseBodies, err := resfile.ExtractFile(basePath)
	if err != nil {
		return err
	}

	mf, err := manifest.Load(rootDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n%sTranslations%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "  Base keys:  %d\n", len(baseBodies))
	fmt.Fprintf(os.Stderr, "  Mapping:    %s\n", cfg.AbsMappingFile(rootDir))
	fmt.Fprintln(os.Stderr)

	langs := resfile.DetectLanguages(transDir)
	if len(langs) == 0 {
		logInfo("No values-XX folders with strings.xml found in %s", transDir)
		return nil
	}

	fmt.Fprintf(os.Stderr, "%-10s %-8s %-10s %s\n", "Lang", "Keys", "Ported", "Archive")
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 52))

	for _, lang := range langs {
		bodies, err := resfile.ExtractFile(resfile.StringsPath(transDir, lang))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%-10s %-8s %-10s %s\n", lang, "error", "-", "-")
			continue
		}

		ported := "no"
		archive := "-"
		if rec, ok := mf.Get(lang); ok {
			ported = rec.PortedAt.Format("2006-01-02")
			archive = rec.Archive
		}
		fmt.Fprintf(os.Stderr, "%-10s %-8d %-10s %s\n", lang, len(bodies), ported, archive)
	}

	fmt.Fprintln(os.Stderr)
	return nil
}

// ---------------------------------------------------------------------------
// notify (announce new strings on Telegram)
// ---------------------------------------------------------------------------

func newNotifyCmd() *cobra.Command {
	var (
		token       string
		destination string
	)

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Announce new strings to the translators' Telegram chat",
		Long: `Post the "new strings added" announcement to the translators' chat.

Credentials are taken from --token/--destination, the TELEGRAM_TOKEN and
TELEGRAM_DESTINATION environment variables, or the stored credentials
(see 'portkit auth'), in that order. Intended to run from the scheduled
CI trigger.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, dest, err := notify.Credentials(token, destination)
			if err != nil {
				return err
			}

			if err := notify.Send(context.Background(), tok, dest, notify.Announcement(time.Now())); err != nil {
				return err
			}
			logSuccess("Announcement sent to %s", dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Telegram bot token")
	cmd.Flags().StringVar(&destination, "destination", "", "Telegram chat id")

	return cmd
}

// ---------------------------------------------------------------------------
// auth (store / inspect / clear Telegram credentials)
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	var (
		token       string
		destination string
		clear       bool
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored Telegram credentials",
		Long: `Store, inspect or clear the Telegram credentials used by 'portkit notify'.

Without flags, shows the current store state (tokens are masked). The store
lives in the XDG data directory with owner-only permissions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear {
				if err := settings.RemoveTelegram(); err != nil {
					return err
				}
				logSuccess("Credentials removed")
				return nil
			}

			if token != "" || destination != "" {
				tg := settings.LoadTelegram()
				if token != "" {
					tg.Token = token
				}
				if destination != "" {
					tg.Destination = destination
				}
				if err := settings.SaveTelegram(tg); err != nil {
					return err
				}
				logSuccess("Credentials saved to %s", settings.FilePath())
				return nil
			}

			tg := settings.LoadTelegram()
			if tg.Token == "" && tg.Destination == "" {
				logInfo("No credentials stored (%s)", settings.FilePath())
				return nil
			}
			fmt.Fprintf(os.Stderr, "  Token:       %s\n", settings.MaskKey(tg.Token))
			fmt.Fprintf(os.Stderr, "  Destination: %s\n", tg.Destination)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Telegram bot token to store")
	cmd.Flags().StringVar(&destination, "destination", "", "Telegram chat id to store")
	cmd.Flags().BoolVar(&clear, "clear", false, "Remove stored credentials")

	return cmd
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
