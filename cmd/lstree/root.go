package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"LsTree/internal/domain/model"
	"LsTree/internal/gui"
	"LsTree/internal/infrastructure/config"
	"LsTree/internal/infrastructure/filesystem"
	"LsTree/internal/infrastructure/logging"
	"LsTree/internal/infrastructure/sink"
	"LsTree/internal/interface/ui"
	"LsTree/internal/usecase/tree"
)

// options はコマンドラインフラグの値です
type options struct {
	mode      string
	linkWidth int
	linkChar  string
	dirMark   string
	fileMark  string
	delimiter string

	output   string
	addr     string
	encoding string
	maxDepth int
	print    bool
	pick     string
	envFile  string
	strict   bool
	verbose  bool
}

// directoryPicker は走査対象を対話的に選ぶダイアログです
type directoryPicker interface {
	SelectDirectory(title string) (string, error)
}

// newPicker は --pick の値に応じたダイアログを返します
var newPicker = func(kind string, validator filesystem.DirectoryValidator) (directoryPicker, error) {
	switch strings.ToLower(kind) {
	case "fyne":
		return gui.NewDirectorySelector(validator), nil
	case "native":
		return ui.NewDirectorySelector(validator), nil
	default:
		return nil, fmt.Errorf("--pick には fyne か native を指定してください: %s", kind)
	}
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "lstree [dir]",
		Short: "Render a directory hierarchy as a decorated tree",
		Long: `lstree walks a directory and renders it as an indented tree in HTML or
plain text. The result is appended to an existing file, written into a new
timestamped file inside a directory, printed, or served over HTTP.

Example:
  lstree .
  lstree ./src --mode text --print
  lstree ./src --delimiter "[" --link-width 2 --output tree.log
  lstree --pick native --addr 127.0.0.1:8080`,
		Args:          cobra.MaximumNArgs(1),
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLsTree(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.mode, "mode", "m", "", "Output mode: html or text")
	f.IntVarP(&opts.linkWidth, "link-width", "w", 0, "Repeat count of the link character (>1)")
	f.StringVar(&opts.linkChar, "link-char", "", "Link character")
	f.StringVar(&opts.dirMark, "dir-mark", "", "Directory kind tag")
	f.StringVar(&opts.fileMark, "file-mark", "", "File kind tag")
	f.StringVarP(&opts.delimiter, "delimiter", "d", "", "Kind tag delimiter, one of "+tree.DelimiterCatalog)
	f.StringVarP(&opts.output, "output", "o", "", "Existing file to append to; an existing directory gets a new timestamped file instead of serving")
	f.StringVar(&opts.addr, "addr", "", "Listen address when serving over HTTP")
	f.StringVar(&opts.encoding, "encoding", "", "Encoding for file and stdout output (utf-8, windows-1252, iso-8859-1, shift_jis); HTTP serving always uses utf-8")
	f.IntVar(&opts.maxDepth, "max-depth", 0, "Maximum directory depth to expand (0 = unlimited)")
	f.BoolVarP(&opts.print, "print", "p", false, "Print the tree to stdout instead of serving it")
	f.StringVar(&opts.pick, "pick", "", "Choose the directory with a dialog: fyne or native")
	f.StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "Environment file with LSTREE_* settings")
	f.BoolVar(&opts.strict, "strict", false, "Fail on rejected style settings")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

func execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// mergeFlags はコマンドラインで指定された値で cfg を上書きします
func mergeFlags(cmd *cobra.Command, opts *options, cfg config.Config) config.Config {
	f := cmd.Flags()
	override := map[string]struct {
		dst *string
		val string
	}{
		"mode":       {&cfg.Mode, opts.mode},
		"link-width": {&cfg.LinkWidth, strconv.Itoa(opts.linkWidth)},
		"link-char":  {&cfg.LinkChar, opts.linkChar},
		"dir-mark":   {&cfg.DirMark, opts.dirMark},
		"file-mark":  {&cfg.FileMark, opts.fileMark},
		"delimiter":  {&cfg.Delimiter, opts.delimiter},
		"addr":       {&cfg.Addr, opts.addr},
		"encoding":   {&cfg.Encoding, opts.encoding},
	}
	for name, o := range override {
		if f.Changed(name) {
			*o.dst = o.val
		}
	}
	if f.Changed("max-depth") {
		cfg.MaxDepth = opts.maxDepth
	}
	return cfg
}

func runLsTree(cmd *cobra.Command, opts *options, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := logging.NewJSONLogger(cmd.ErrOrStderr())
	if opts.verbose {
		logger.SetLevel(logging.LevelDebug)
	}

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	cfg = mergeFlags(cmd, opts, cfg)

	scanner := filesystem.NewScanner(logger, filesystem.WithMaxDepth(cfg.MaxDepth))
	renderer := tree.NewRenderer(scanner, logger)

	if rejected := cfg.Apply(renderer); len(rejected) > 0 {
		err := fmt.Errorf("%w: %s", model.ErrInvalidConfiguration, strings.Join(rejected, ", "))
		if opts.strict {
			return err
		}
		logger.Log(logging.LevelWarn, "一部の描画設定を無視しました", err)
	}

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	if opts.pick != "" {
		picker, err := newPicker(opts.pick, scanner)
		if err != nil {
			return err
		}
		dir, err = picker.SelectDirectory("走査対象フォルダを選択")
		if err != nil {
			return err
		}
	}

	if err := renderer.Ls(ctx, dir); err != nil {
		if errors.Is(err, model.ErrInvalidRoot) {
			return fmt.Errorf("%s はディレクトリではありません: %w", dir, err)
		}
		return err
	}
	logger.Log(logging.LevelInfo, fmt.Sprintf("ツリーを生成しました: %s", dir), nil)

	out, err := sink.Select(sink.Options{
		Output:   opts.output,
		Print:    opts.print,
		Writer:   cmd.OutOrStdout(),
		Addr:     cfg.Addr,
		HTMLMode: renderer.Style().HTMLMode,
		Encoding: cfg.Encoding,
		Logger:   logger,
	}, renderer.Result())
	if err != nil {
		return err
	}
	return out.Deliver(ctx)
}
