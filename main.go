package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	poserrors "github.com/pipe01/tagtree/errors"
	"github.com/pipe01/tagtree/internal/config"
	"github.com/pipe01/tagtree/internal/generator"
	"github.com/pipe01/tagtree/internal/lexer"
	"github.com/pipe01/tagtree/internal/workspace"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var cfg = config.Load()

var (
	outDir      = kingpin.Flag("out-dir", "Folder to put generated files on").Short('o').Default(".").String()
	indentWidth = kingpin.Flag("indent", "Number of whitespace columns per nesting level").Default(fmt.Sprint(cfg.IndentWidth)).Int()
	selfClosing = kingpin.Flag("self-closing", "Tag name to render as self-closing, can be repeated").Strings()
	htmlVoid    = kingpin.Flag("html-void", "Render all HTML void elements as self-closing").Default(fmt.Sprint(cfg.HTMLVoid)).Bool()
	toStdout    = kingpin.Flag("stdout", "Print generated markup instead of writing files").Short('c').Bool()
	watch       = kingpin.Flag("watch", "Watch files for changes and recompile automatically").Short('w').Bool()
	verbose     = kingpin.Flag("verbose", "Log more details").Short('v').Counter()
	files       = kingpin.Arg("files", "List of files to compile").Required().ExistingFiles()

	lexOpts lexer.Options
	genOpts generator.Options

	log commonlog.Logger
)

func main() {
	kingpin.Parse()

	commonlog.Configure(cfg.LogVerbosity+*verbose, nil)
	log = commonlog.GetLogger("tagtree.cli")

	*outDir, _ = filepath.Abs(*outDir)

	cfg.IndentWidth = *indentWidth
	cfg.HTMLVoid = *htmlVoid
	if len(*selfClosing) > 0 {
		cfg.SelfClosing = *selfClosing
	}

	if err := cfg.Validate(); err != nil {
		kingpin.Fatalf("invalid configuration: %s", err)
	}

	lexOpts = cfg.LexerOptions()
	genOpts = cfg.GeneratorOptions()

	log.Debugf("self-closing tags: %s", strings.Join(genOpts.SelfClosingNames(), ", "))

	if *watch {
		err := watchFiles()
		if err != nil {
			kingpin.Fatalf("failed to watch files: %s", err)
		}
	} else {
		err := generateAll()
		if err != nil {
			kingpin.Fatalf("failed to generate files: %s", err)
		}
	}
}

func generateAll() error {
	wd, _ := os.Getwd()
	ws := workspace.New(wd, lexOpts)

	for _, fname := range *files {
		_, err := generateFile(ws, fname)
		if err != nil {
			return fmt.Errorf("load file %q: %w", fname, describe(err))
		}
	}

	return nil
}

func generateFile(ws *workspace.Workspace, fname string) (outPath string, err error) {
	f, err := ws.Load(fname)
	if err != nil {
		return "", err
	}

	if *toStdout {
		if err := generator.Visit(os.Stdout, f, genOpts); err != nil {
			return "", fmt.Errorf("generate output: %w", err)
		}
		fmt.Println()
		return "", nil
	}

	outName := strings.TrimSuffix(filepath.Base(fname), filepath.Ext(fname)) + ".html"
	outPath = filepath.Join(*outDir, outName)

	outf, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	defer outf.Close()

	err = generator.Visit(outf, f, genOpts)
	if err != nil {
		return "", fmt.Errorf("generate output: %w", err)
	}

	log.Infof("wrote %s", outPath)

	return outPath, nil
}

// describe prefixes err with the source location when it has one.
func describe(err error) error {
	poserr, ok := poserrors.Situate(err)
	if !ok {
		return err
	}

	at := poserr.At()
	return fmt.Errorf("%s: %w", at.String(), poserr.Unwrap())
}

func watchFiles() error {
	watcher, err := NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, f := range *files {
		err = watcher.WatchFile(f)
		if err != nil {
			return fmt.Errorf("watch file %q: %w", f, err)
		}

		watcher.fileModified(f)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	log.Info("watching files for changes...")

	<-ch
	return nil
}
