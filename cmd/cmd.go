// Package cmd provides CLI command implementations for owlrdf.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/Benny93/owlrdf-go/internal/config"
	"github.com/Benny93/owlrdf-go/internal/ingestion"
	"github.com/Benny93/owlrdf-go/internal/metrics"
	"github.com/Benny93/owlrdf-go/internal/owl"
	"github.com/Benny93/owlrdf-go/internal/storage"
	"github.com/Benny93/owlrdf-go/mcp"
)

// Version is set at build time via ldflags.
var Version = "dev"

const (
	metaFile  = "meta.json"
	badgerDir = "badger"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	bold   = color.New(color.Bold)
)

// Globals holds flags shared by every command.
type Globals struct {
	Config   string `short:"c" type:"path" help:"Config file (default: owlrdf.yaml in the project or a parent directory)"`
	LogLevel string `help:"Log level (debug, info, warn, error)"`

	Stdout io.Writer `kong:"-"`
}

func (g *Globals) out() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// loadConfig resolves the configuration for a project root and applies the
// global overrides.
func (g *Globals) loadConfig(root string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g != nil && g.Config != "" {
		cfg, err = config.LoadFromFile(g.Config)
	} else {
		cfg, err = config.NewLoader(nil).Load(root)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if g != nil && g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// project is a resolved project root with its configuration.
type project struct {
	root string
	cfg  *config.Config
}

func (g *Globals) openProject(path string, overrides *config.Config) (*project, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	cfg, err := g.loadConfig(root)
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		cfg.Merge(overrides)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	return &project{root: root, cfg: cfg}, nil
}

func (p *project) stateDir() string {
	return p.cfg.StateDir(p.root)
}

// ingestionOptions builds pipeline options from the configuration.
func (p *project) ingestionOptions() (ingestion.Options, error) {
	v, err := p.cfg.LoadVocabulary(p.root)
	if err != nil {
		return ingestion.Options{}, fmt.Errorf("loading vocabulary: %w", err)
	}
	return ingestion.Options{
		Vocabulary: v,
		Include:    p.cfg.Parse.Include,
		Workers:    p.cfg.Parse.Workers,
		MaxDepth:   p.cfg.Parse.MaxDepth,
		Logger:     p.cfg.NewLogger(),
	}, nil
}

// openStorage opens the project's badger store. A read-only open requires
// an earlier parse.
func (p *project) openStorage(readOnly bool) (*storage.BadgerBackend, error) {
	dbPath := filepath.Join(p.stateDir(), badgerDir)

	if readOnly {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("no parse results found at %s. Run 'owlrdf parse' first", p.root)
		}
	} else if err := os.MkdirAll(p.stateDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	store := storage.NewBadgerBackend()
	if err := store.Initialize(dbPath, readOnly); err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

// documentID maps a user-supplied file path to the stored document ID.
func (p *project) documentID(arg string) string {
	if filepath.IsAbs(arg) {
		if rel, err := filepath.Rel(p.root, arg); err == nil {
			arg = rel
		}
	}
	return filepath.ToSlash(filepath.Clean(arg))
}

// projectMeta is written to meta.json after every parse.
type projectMeta struct {
	Version    string    `json:"version"`
	Path       string    `json:"path"`
	RunID      string    `json:"run_id"`
	Vocabulary string    `json:"vocabulary"`
	ParsedAt   time.Time `json:"parsed_at"`
	Stats      metaStats `json:"stats"`
}

type metaStats struct {
	Files        int     `json:"files"`
	Triples      int     `json:"triples"`
	Axioms       int     `json:"axioms"`
	Warnings     int     `json:"warnings"`
	Unparsed     int     `json:"unparsed"`
	Failed       int     `json:"failed"`
	Removed      int     `json:"removed"`
	DurationSecs float64 `json:"duration_secs"`
}

func writeMeta(dir string, meta *projectMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", metaFile, err)
	}
	if err := os.WriteFile(filepath.Join(dir, metaFile), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", metaFile, err)
	}
	return nil
}

func readMeta(dir string) (*projectMeta, error) {
	data, err := os.ReadFile(filepath.Join(dir, metaFile))
	if err != nil {
		return nil, err
	}
	var meta projectMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", metaFile, err)
	}
	return &meta, nil
}

// InitCmd writes a default project config file.
type InitCmd struct {
	Path  string `arg:"" optional:"" default:"." help:"Project root"`
	Force bool   `short:"f" help:"Overwrite an existing config file"`
}

// Run executes the init command.
func (c *InitCmd) Run(g *Globals) error {
	path := filepath.Join(c.Path, config.ProjectConfigFile)
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().SaveToFile(path); err != nil {
		return err
	}

	green.Fprintf(g.out(), "✓ Wrote %s\n", path)
	return nil
}

// ParseCmd parses every triple file of a project and stores the results.
type ParseCmd struct {
	Path       string `arg:"" optional:"" default:"." help:"Project root"`
	Vocabulary string `help:"Vocabulary preset (owl2, owl11) or path to a vocabulary table"`
	Workers    int    `short:"j" help:"Number of files parsed in parallel"`
	MaxDepth   int    `help:"Maximum class expression nesting depth"`
	Prune      bool   `help:"Remove stored documents whose files no longer exist"`
	Quiet      bool   `short:"q" help:"Suppress progress output"`
}

// Run executes the parse command.
func (c *ParseCmd) Run(g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := g.openProject(c.Path, &config.Config{
		Vocabulary: c.Vocabulary,
		Parse: config.ParseConfig{
			Workers:  c.Workers,
			MaxDepth: c.MaxDepth,
		},
	})
	if err != nil {
		return err
	}

	opts, err := p.ingestionOptions()
	if err != nil {
		return err
	}
	opts.Prune = c.Prune

	out := g.out()
	if !c.Quiet {
		green.Fprintf(out, "Parsing %s\n", p.root)
		opts.Progress = func(phase string, pct float64) {
			fmt.Fprintf(out, "\r\033[K%s (%.0f%%)", phase, pct*100)
		}
	}

	store, err := p.openStorage(false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	result, err := ingestion.RunPipeline(ctx, p.root, store, opts)
	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}
	if !c.Quiet {
		fmt.Fprintln(out)
	}

	meta := &projectMeta{
		Version:    Version,
		Path:       p.root,
		RunID:      result.RunID,
		Vocabulary: opts.Vocabulary.Name,
		ParsedAt:   time.Now().UTC(),
		Stats: metaStats{
			Files:        result.Files,
			Triples:      result.Triples,
			Axioms:       result.Axioms,
			Warnings:     result.Warnings,
			Unparsed:     result.Unparsed,
			Failed:       len(result.Failed),
			Removed:      result.Removed,
			DurationSecs: result.DurationSecs,
		},
	}
	if err := writeMeta(p.stateDir(), meta); err != nil {
		return err
	}

	green.Fprintln(out, "✓ Parsing complete")
	fmt.Fprintf(out, "  Files:          %d\n", result.Files)
	fmt.Fprintf(out, "  Triples:        %d\n", result.Triples)
	fmt.Fprintf(out, "  Axioms:         %d\n", result.Axioms)
	if result.Warnings > 0 {
		yellow.Fprintf(out, "  Warnings:       %d\n", result.Warnings)
	}
	fmt.Fprintf(out, "  Unparsed:       %d\n", result.Unparsed)
	if c.Prune {
		fmt.Fprintf(out, "  Removed:        %d\n", result.Removed)
	}
	fmt.Fprintf(out, "  Duration:       %.2fs\n", result.DurationSecs)

	for _, fe := range result.Failed {
		red.Fprintf(out, "  ✗ %s: %v\n", fe.Path, fe.Err)
	}

	return nil
}

// AxiomsCmd prints the axioms of a stored document.
type AxiomsCmd struct {
	Document string `arg:"" help:"Document path relative to the project root"`
	Type     string `short:"t" help:"Only show axioms of this type (e.g. SubClassOf)"`
	Root     string `short:"r" default:"." help:"Project root"`
}

// Run executes the axioms command.
func (c *AxiomsCmd) Run(g *Globals) error {
	var filter owl.AxiomType
	if c.Type != "" {
		t, ok := owl.ParseAxiomType(c.Type)
		if !ok {
			return fmt.Errorf("unknown axiom type %q", c.Type)
		}
		filter = t
	}

	doc, err := g.loadDocument(c.Root, c.Document)
	if err != nil {
		return err
	}

	out := g.out()
	bold.Fprintf(out, "## Axioms in %s\n\n", doc.Path)
	n := 0
	for _, ax := range doc.Axioms {
		if filter != "" && ax.Type != string(filter) {
			continue
		}
		fmt.Fprintln(out, ax.Text)
		n++
	}
	if n == 0 {
		fmt.Fprintln(out, "No matching axioms")
	}
	return nil
}

// loadDocument opens the project read-only and returns one stored document.
func (g *Globals) loadDocument(root, arg string) (*storage.Document, error) {
	p, err := g.openProject(root, nil)
	if err != nil {
		return nil, err
	}

	store, err := p.openStorage(true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	id := p.documentID(arg)
	doc, err := store.GetDocument(context.Background(), id)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document %q not found. Run 'owlrdf parse' to refresh", id)
	}
	return doc, nil
}

// WarningsCmd prints consumption warnings.
type WarningsCmd struct {
	Document string `arg:"" optional:"" help:"Document path (default: all documents)"`
	Root     string `short:"r" default:"." help:"Project root"`
}

// Run executes the warnings command.
func (c *WarningsCmd) Run(g *Globals) error {
	var docs []*storage.Document
	if c.Document != "" {
		doc, err := g.loadDocument(c.Root, c.Document)
		if err != nil {
			return err
		}
		docs = []*storage.Document{doc}
	} else {
		p, err := g.openProject(c.Root, nil)
		if err != nil {
			return err
		}
		store, err := p.openStorage(true)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		docs, err = store.ListDocuments(context.Background())
		if err != nil {
			return fmt.Errorf("listing documents: %w", err)
		}
	}

	out := g.out()
	total := 0
	for _, doc := range docs {
		if len(doc.Warnings) == 0 {
			continue
		}
		bold.Fprintf(out, "%s (%d)\n", doc.Path, len(doc.Warnings))
		for _, w := range doc.Warnings {
			yellow.Fprintf(out, "  [%s]", w.Kind)
			if w.Node != "" {
				fmt.Fprintf(out, " %s:", w.Node)
			}
			fmt.Fprintf(out, " %s\n", w.Message)
			if w.Triple != "" {
				fmt.Fprintf(out, "    %s\n", w.Triple)
			}
		}
		total += len(doc.Warnings)
	}

	if total == 0 {
		green.Fprintln(out, "✓ No warnings")
	}
	return nil
}

// UnparsedCmd prints the triples no handler consumed.
type UnparsedCmd struct {
	Document string `arg:"" help:"Document path relative to the project root"`
	Root     string `short:"r" default:"." help:"Project root"`
}

// Run executes the unparsed command.
func (c *UnparsedCmd) Run(g *Globals) error {
	doc, err := g.loadDocument(c.Root, c.Document)
	if err != nil {
		return err
	}

	out := g.out()
	if len(doc.Unparsed) == 0 {
		green.Fprintln(out, "✓ Every triple was consumed")
		return nil
	}
	for _, t := range doc.Unparsed {
		fmt.Fprintln(out, t)
	}
	return nil
}

// SearchCmd searches stored axioms.
type SearchCmd struct {
	Query string `arg:"" help:"Search query"`
	Limit int    `short:"n" default:"20" help:"Maximum results"`
	Root  string `short:"r" default:"." help:"Project root"`
}

// Run executes the search command.
func (c *SearchCmd) Run(g *Globals) error {
	p, err := g.openProject(c.Root, nil)
	if err != nil {
		return err
	}
	store, err := p.openStorage(true)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	results, err := store.SearchAxioms(context.Background(), c.Query, c.Limit)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	out := g.out()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results found")
		return nil
	}

	for i, r := range results {
		fmt.Fprintf(out, "\n%d. %s\n", i+1, r.Axiom)
		fmt.Fprintf(out, "   File: %s (axiom %d)\n", r.Path, r.Index)
		fmt.Fprintf(out, "   Score: %.3f\n", r.Score)
	}
	return nil
}

// StatusCmd shows the last parse of a project.
type StatusCmd struct {
	Path string `arg:"" optional:"" default:"." help:"Project root"`
}

// Run executes the status command.
func (c *StatusCmd) Run(g *Globals) error {
	p, err := g.openProject(c.Path, nil)
	if err != nil {
		return err
	}

	meta, err := readMeta(p.stateDir())
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no parse results found at %s. Run 'owlrdf parse' first", p.root)
		}
		return fmt.Errorf("reading %s: %w", metaFile, err)
	}

	out := g.out()
	fmt.Fprintf(out, "Parse status for %s\n", p.root)
	fmt.Fprintf(out, "  Version:        %s\n", meta.Version)
	fmt.Fprintf(out, "  Vocabulary:     %s\n", meta.Vocabulary)
	fmt.Fprintf(out, "  Last parsed:    %s\n", meta.ParsedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "  Run:            %s\n", meta.RunID)
	fmt.Fprintf(out, "  Files:          %d\n", meta.Stats.Files)
	fmt.Fprintf(out, "  Triples:        %d\n", meta.Stats.Triples)
	fmt.Fprintf(out, "  Axioms:         %d\n", meta.Stats.Axioms)
	fmt.Fprintf(out, "  Warnings:       %d\n", meta.Stats.Warnings)
	fmt.Fprintf(out, "  Unparsed:       %d\n", meta.Stats.Unparsed)
	if meta.Stats.Failed > 0 {
		red.Fprintf(out, "  Failed files:   %d\n", meta.Stats.Failed)
	}
	return nil
}

// WatchCmd re-parses files as they change.
type WatchCmd struct {
	Path        string        `arg:"" optional:"" default:"." help:"Project root"`
	Debounce    time.Duration `default:"500ms" help:"Quiet period before re-parsing changed files"`
	MetricsAddr string        `help:"Serve prometheus metrics on this address (e.g. :9090)"`
}

// Run executes the watch command.
func (c *WatchCmd) Run(g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := g.openProject(c.Path, &config.Config{Metrics: config.MetricsConfig{Addr: c.MetricsAddr}})
	if err != nil {
		return err
	}
	opts, err := p.ingestionOptions()
	if err != nil {
		return err
	}

	store, err := p.openStorage(false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	reg := prometheus.NewRegistry()
	if opts.Metrics, err = metrics.New(reg); err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	out := g.out()
	fmt.Fprintln(out, "## Watch Mode")
	fmt.Fprintf(out, "Watching %s for changes (Ctrl+C to stop)\n\n", p.root)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return ingestion.WatchDir(gctx, p.root, store, opts, c.Debounce)
	})
	if addr := p.cfg.Metrics.Addr; addr != "" {
		fmt.Fprintf(out, "Serving metrics on %s%s\n", addr, metrics.MetricsPath)
		group.Go(func() error {
			return metrics.Serve(gctx, addr, reg)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch error: %w", err)
	}

	fmt.Fprintln(out, "Watch mode stopped.")
	return nil
}

// MCPCmd starts the MCP server.
type MCPCmd struct {
	Root        string `short:"r" default:"." help:"Project root"`
	Watch       bool   `short:"w" help:"Re-parse changed files while serving"`
	MetricsAddr string `help:"Serve prometheus metrics on this address (e.g. :9090)"`
}

// Run executes the mcp command. Only JSON-RPC goes to stdout; logs go to
// stderr.
func (c *MCPCmd) Run(g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := g.openProject(c.Root, &config.Config{Metrics: config.MetricsConfig{Addr: c.MetricsAddr}})
	if err != nil {
		return err
	}
	opts, err := p.ingestionOptions()
	if err != nil {
		return err
	}

	store, err := p.openStorage(!c.Watch)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	reg := prometheus.NewRegistry()
	if opts.Metrics, err = metrics.New(reg); err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	group, gctx := errgroup.WithContext(ctx)
	if c.Watch {
		group.Go(func() error {
			err := ingestion.WatchDir(gctx, p.root, store, opts, ingestion.DefaultDebounce)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	if addr := p.cfg.Metrics.Addr; addr != "" {
		group.Go(func() error {
			return metrics.Serve(gctx, addr, reg)
		})
	}

	server := mcp.NewServer(store, opts.Vocabulary)
	err = server.Run(gctx, os.Stdin, os.Stdout)
	stop()
	if werr := group.Wait(); werr != nil && err == nil {
		err = werr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// CleanCmd deletes the stored parse results of a project.
type CleanCmd struct {
	Path  string `arg:"" optional:"" default:"." help:"Project root"`
	Force bool   `short:"f" help:"Skip confirmation"`
}

// Run executes the clean command.
func (c *CleanCmd) Run(g *Globals) error {
	p, err := g.openProject(c.Path, nil)
	if err != nil {
		return err
	}

	stateDir := p.stateDir()
	if _, err := os.Stat(stateDir); os.IsNotExist(err) {
		return fmt.Errorf("no parse results found at %s. Nothing to clean", p.root)
	}

	out := g.out()
	if !c.Force {
		fmt.Fprintf(out, "Delete parse results at %s? [y/N] ", stateDir)
		var response string
		_, _ = fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Aborted")
			return nil
		}
	}

	if err := os.RemoveAll(stateDir); err != nil {
		return fmt.Errorf("deleting parse results: %w", err)
	}

	green.Fprintf(out, "Deleted %s\n", stateDir)
	return nil
}

// CLI is the root Kong command structure.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version information"`

	// Commands
	Init     InitCmd     `cmd:"" help:"Write a default owlrdf.yaml"`
	Parse    ParseCmd    `cmd:"" help:"Parse triple files into OWL axioms"`
	Axioms   AxiomsCmd   `cmd:"" help:"Show the axioms of a parsed document"`
	Warnings WarningsCmd `cmd:"" help:"Show warnings raised while parsing"`
	Unparsed UnparsedCmd `cmd:"" help:"Show triples that were not consumed"`
	Search   SearchCmd   `cmd:"" help:"Full-text search over parsed axioms"`
	Status   StatusCmd   `cmd:"" help:"Show the last parse of a project"`
	Watch    WatchCmd    `cmd:"" help:"Watch mode with live re-parsing"`
	Setup    SetupCmd    `cmd:"" help:"Configure MCP for Claude Code / Cursor"`
	MCP      MCPCmd      `cmd:"" help:"Start MCP server (stdio transport)"`
	Clean    CleanCmd    `cmd:"" help:"Delete stored parse results"`
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{}
}

// Execute parses command-line arguments and executes the selected command.
func (c *CLI) Execute(args []string) error {
	parser, err := kong.New(c,
		kong.Name("owlrdf"),
		kong.Description("Turn RDF triples into OWL 2 axioms"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	return kongCtx.Run(&c.Globals)
}
