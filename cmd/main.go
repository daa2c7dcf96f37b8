package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/scmview/scmview/internal/app"
	"github.com/scmview/scmview/internal/common"
	"github.com/scmview/scmview/internal/config"
	"github.com/scmview/scmview/internal/draft"
	"github.com/scmview/scmview/internal/git"
	"github.com/scmview/scmview/internal/icons"
	"github.com/scmview/scmview/internal/log"
	"github.com/scmview/scmview/internal/scm"
	"github.com/scmview/scmview/internal/ui"
	"github.com/scmview/scmview/internal/ui/views"
	"github.com/scmview/scmview/internal/watcher"
)

// Build-time variables injected via ldflags by GoReleaser / Taskfile.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	// ── Multi-instance resource tuning ──────────────────────────────
	//
	// Users tend to keep one scmview per terminal, so 5+ instances on
	// one machine is normal. Each Go runtime defaults to GOMAXPROCS =
	// NumCPU (e.g. 10 on an M1 Pro); 5 × 10 = 50 OS threads competing
	// for 10 cores causes context-switch overhead and latency spikes.
	//
	// A TUI spends most of its time waiting for I/O (git subprocesses,
	// fsnotify, terminal input). 2 OS threads is plenty for the actual
	// Go work (render + message dispatch). The git subprocesses run
	// externally and aren't affected by GOMAXPROCS.
	//
	// If the user explicitly sets GOMAXPROCS, we respect that.
	if os.Getenv("GOMAXPROCS") == "" {
		maxProcs := 2
		if n := runtime.NumCPU(); n < maxProcs {
			maxProcs = n
		}
		runtime.GOMAXPROCS(maxProcs)
	}

	// Limit the GC target to 50 MB. For a TUI that should rarely exceed
	// 30 MB resident, this triggers the GC earlier and keeps RSS low —
	// critical when 5+ instances share the machine.
	debug.SetMemoryLimit(50 * 1024 * 1024) // 50 MiB
}

func main() {
	rootCmd := buildRootCmd()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "scmview",
		Short: "A terminal source-control panel for Git",
		Long: `scmview is a keyboard-first source-control panel for the terminal.

It shows your working tree grouped into merge conflicts, staged,
unstaged, and untracked changes, with an inline diff pane, hunk-level
navigation, staging/unstaging, commit with draft recovery, stashes, and
push/pull/fetch — all from a single TUI powered by Bubbletea.`,
		RunE:          runApp,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"scmview %s\n  commit:  %s\n  built:   %s\n  go:      %s\n  os/arch: %s/%s\n",
		version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	))

	rootCmd.AddCommand(buildVersionCmd())
	rootCmd.AddCommand(buildCompletionCmd())

	rootCmd.Flags().StringP("path", "p", ".", "Path to the git repository")

	return rootCmd
}

// buildVersionCmd creates the `scmview version` subcommand supporting --json.
func buildVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(_ *cobra.Command, _ []string) error {
			info := map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
				"go":      runtime.Version(),
				"os":      runtime.GOOS,
				"arch":    runtime.GOARCH,
			}
			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Printf("scmview %s\n", version)
			fmt.Printf("  commit:  %s\n", commit)
			fmt.Printf("  built:   %s\n", date)
			fmt.Printf("  go:      %s\n", runtime.Version())
			fmt.Printf("  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	return cmd
}

// buildCompletionCmd creates the `scmview completion` subcommand for shell completions.
func buildCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for scmview.

Examples:
  # Bash (add to ~/.bashrc)
  scmview completion bash > /etc/bash_completion.d/scmview

  # Zsh (add to ~/.zshrc before compinit)
  scmview completion zsh > "${fpath[1]}/_scmview"

  # Fish
  scmview completion fish > ~/.config/fish/completions/scmview.fish

  # PowerShell
  scmview completion powershell > scmview.ps1`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}

	return cmd
}

func runApp(cmd *cobra.Command, _ []string) error {
	repoPath, _ := cmd.Flags().GetString("path")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The debug trace buffers until we know whether it's wanted.
	if cfg.DebugLog != "" {
		if logErr := log.SetFile(cfg.DebugLog); logErr != nil {
			fmt.Fprintf(os.Stderr, "opening debug log %q: %v\n", cfg.DebugLog, logErr)
		}
	} else {
		_ = log.SetFile("")
	}
	defer func() { _ = log.Close() }()

	cliSvc, err := git.NewCLIService(repoPath)
	if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}
	cliSvc.SetDiffContext(cfg.DiffContextLines)

	// Wrap with a TTL cache to deduplicate git calls within a single
	// refresh cycle. Critical for monorepo performance.
	gitSvc := git.NewCachedService(cliSvc, cfg.CacheTTL())

	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))

	// A nil interface disables icon lookups entirely; a typed nil would
	// not.
	var iconProvider scm.IconProvider
	if cfg.ShowIcons {
		iconProvider = icons.NewProvider()
	}

	drafts, draftErr := draft.NewStore()
	if draftErr != nil {
		// Draft persistence is a convenience; run without it.
		log.Printf("draft store unavailable: %v", draftErr)
		drafts = nil
	}

	viewMap := map[common.TabID]common.View{
		common.TabChanges: views.NewPanelView(gitSvc, cfg, styles, iconProvider, drafts),
		common.TabStashes: views.NewStashesView(gitSvc, cfg, styles),
	}

	model := app.New(gitSvc, cfg, styles, viewMap)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Start filesystem watcher — only watches .git internals, safe for huge monorepos.
	if watchCh, stop, watchErr := watcher.Watch(cliSvc.RepoRoot(), cliSvc.GitDir(), cfg.RefreshDebounce()); watchErr == nil {
		defer stop()
		go func() {
			for range watchCh {
				p.Send(common.RefreshMsg{})
			}
		}()
	}

	_, err = p.Run()
	return err
}
