// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ctxdrop/internal/config"
	"github.com/temirov/ctxdrop/internal/export"
	"github.com/temirov/ctxdrop/internal/filter"
	"github.com/temirov/ctxdrop/internal/services/clipboard"
	"github.com/temirov/ctxdrop/internal/services/watch"
	"github.com/temirov/ctxdrop/internal/tokenizer"
	"github.com/temirov/ctxdrop/internal/tui"
	"github.com/temirov/ctxdrop/internal/utils"
	"github.com/temirov/ctxdrop/internal/workspace"
)

const (
	configFlagName         = "config"
	settingsFlagName       = "settings"
	modelFlagName          = "model"
	exclusionFlagName      = "exclude"
	exclusionFlagShorthand = "e"
	gitignoreFlagName      = "gitignore"
	includeGitFlagName     = "git"
	copyFlagName           = "copy"
	versionFlagName        = "version"
	globalFlagName         = "global"
	forceFlagName          = "force"

	versionTemplate      = "ctxdrop version: %s\n"
	rootUse              = "ctxdrop [paths...]"
	rootShortDescription = "collect files into a token-counted bundle for LLM chats"
	rootLongDescription  = `ctxdrop opens a terminal list of the given files and folders.
Drop more paths onto the terminal or press a to add them, select with vim keys
and press y to copy a markdown bundle of the selection to the clipboard.
Use --copy to skip the interface and copy every given path at once.`
	rootUsageExample = `  # Browse the current project
  ctxdrop .

  # Copy two folders straight to the clipboard
  ctxdrop --copy ./cmd ./internal`
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./.ctxdrop.yaml,
or to ~/.ctxdrop/config.yaml with --global.`

	configFlagDescription     = "configuration file overriding ./.ctxdrop.yaml"
	settingsFlagDescription   = "settings file location"
	modelFlagDescription      = "tokenizer model to use for token counting"
	exclusionFlagDescription  = "exclude path pattern"
	gitignoreFlagDescription  = "honor .gitignore files"
	includeGitFlagDescription = "include the .git directory"
	copyFlagDescription       = "copy every given path to the clipboard without the interface"
	versionFlagDescription    = "display application version"
	globalFlagDescription     = "write the global configuration"
	forceFlagDescription      = "overwrite an existing configuration file"

	initWrittenFormat      = "configuration written to %s\n"
	copyReportFormat       = "copied %d file(s), %s tokens\n"
	copyNoPathsMessage     = "--copy needs at least one path"
	copyNothingMessage     = "nothing to copy"
	loggerCreateFormat     = "create logger: %w"
	configurationLoadFmt   = "load configuration: %w"
	runInterfaceFmt        = "run interface: %w"
	logMessageTokenizer    = "tokenizer unavailable, token counts disabled"
	logMessageWatcher      = "file watcher unavailable, live refresh disabled"
	logMessageTokenizerSet = "tokenizer ready"
	logFieldEncoding       = "encoding"
)

// newCounter is replaced in tests to avoid fetching encodings.
var newCounter = tokenizer.NewCounter

// Execute runs the ctxdrop application.
func Execute() error {
	rootCommand := createRootCommand()
	rootCommand.SetArgs(normalizeSwitchArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

type launchOptions struct {
	configurationPath string
	settingsPath      string
	model             string
	exclusionPatterns []string
	useGitignore      bool
	includeGit        bool
	copyOnly          bool
	showVersion       bool
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var options launchOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		SilenceUsage: true,
		Args:         cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			configuration, err := resolveConfiguration(command, options)
			if err != nil {
				return err
			}
			if options.copyOnly {
				return runCopy(command.Context(), command.OutOrStdout(), configuration, arguments)
			}
			return runInterface(command.Context(), configuration, arguments)
		},
	}

	registerLaunchFlags(rootCommand, &options)
	rootCommand.PersistentFlags().BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func registerLaunchFlags(command *cobra.Command, options *launchOptions) {
	flagSet := command.Flags()
	flagSet.StringVar(&options.configurationPath, configFlagName, "", configFlagDescription)
	flagSet.StringVar(&options.settingsPath, settingsFlagName, "", settingsFlagDescription)
	flagSet.StringVar(&options.model, modelFlagName, "", modelFlagDescription)
	flagSet.StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagShorthand, nil, exclusionFlagDescription)
	registerSwitchFlag(flagSet, &options.useGitignore, gitignoreFlagName, true, gitignoreFlagDescription)
	registerSwitchFlag(flagSet, &options.includeGit, includeGitFlagName, false, includeGitFlagDescription)
	registerSwitchFlag(flagSet, &options.copyOnly, copyFlagName, false, copyFlagDescription)
}

func createInitCommand() *cobra.Command {
	var global bool
	var force bool
	command := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destination, err := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), initWrittenFormat, destination)
			return err
		},
	}
	registerSwitchFlag(command.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerSwitchFlag(command.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return command
}

// resolveConfiguration loads the configuration files and overlays the flags
// the user set explicitly.
func resolveConfiguration(command *cobra.Command, options launchOptions) (config.ApplicationConfiguration, error) {
	configuration, err := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: options.configurationPath})
	if err != nil {
		return config.ApplicationConfiguration{}, fmt.Errorf(configurationLoadFmt, err)
	}
	var override config.ApplicationConfiguration
	flagSet := command.Flags()
	if flagSet.Changed(settingsFlagName) {
		override.Settings.Path = options.settingsPath
	}
	if flagSet.Changed(modelFlagName) {
		override.Tokens.Model = options.model
	}
	if flagSet.Changed(exclusionFlagName) {
		override.Paths.Exclude = append(append([]string{}, configuration.Paths.Exclude...), options.exclusionPatterns...)
	}
	if switchChanged(flagSet, gitignoreFlagName) {
		useGitignore := options.useGitignore
		override.Paths.UseGitignore = &useGitignore
	}
	if switchChanged(flagSet, includeGitFlagName) {
		includeGit := options.includeGit
		override.Paths.IncludeGit = &includeGit
	}
	return configuration.Merge(override), nil
}

func buildSession(configuration config.ApplicationConfiguration, logger *zap.Logger, copier clipboard.Copier) *workspace.Session {
	store := config.NewSettingsStore(configuration.SettingsPath(), logger)

	var cache *tokenizer.Cache
	counter, encoding, err := newCounter(tokenizer.Config{Model: configuration.Model()})
	if err != nil {
		logger.Warn(logMessageTokenizer, zap.Error(err))
	} else {
		logger.Debug(logMessageTokenizerSet, zap.String(logFieldEncoding, encoding))
		cache = tokenizer.NewCache(counter)
	}

	return workspace.New(workspace.Options{
		Settings: store.Load(),
		Store:    store,
		Matcher: filter.MatcherOptions{
			UseGitignore: configuration.UseGitignore(),
			IncludeGit:   configuration.IncludeGit(),
			Exclude:      configuration.Paths.Exclude,
		},
		Cache:     cache,
		Workers:   configuration.WorkerCount(),
		Formatter: export.NewFormatter(nil),
		Clipboard: copier,
		Logger:    logger,
	})
}

func runInterface(ctx context.Context, configuration config.ApplicationConfiguration, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := utils.NewFileLogger(utils.DefaultLogPath())
	if err != nil {
		return fmt.Errorf(loggerCreateFormat, err)
	}
	defer func() { _ = logger.Sync() }()

	session := buildSession(configuration, logger, clipboard.NewService())

	watcher, watchErr := watch.New(watch.DefaultDebounce, logger)
	if watchErr != nil {
		logger.Warn(logMessageWatcher, zap.Error(watchErr))
		watcher = nil
	}
	if watcher != nil {
		defer func() { _ = watcher.Close() }()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	model := tui.New(tui.Options{
		Context:      ctx,
		Session:      session,
		Watcher:      watcher,
		InitialPaths: paths,
		Logger:       logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf(runInterfaceFmt, err)
	}
	return nil
}

// runCopy scans paths synchronously and copies every visible file.
func runCopy(ctx context.Context, output io.Writer, configuration config.ApplicationConfiguration, paths []string) error {
	return copyPaths(ctx, output, configuration, paths, clipboard.NewService())
}

func copyPaths(ctx context.Context, output io.Writer, configuration config.ApplicationConfiguration, paths []string, copier clipboard.Copier) error {
	if len(paths) == 0 {
		return errors.New(copyNoPathsMessage)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := utils.NewApplicationLogger()
	if err != nil {
		return fmt.Errorf(loggerCreateFormat, err)
	}
	defer func() { _ = logger.Sync() }()

	session := buildSession(configuration, logger, copier)
	request, issued := session.AddPaths(paths)
	if issued {
		session.ApplyScan(request.Run(ctx))
	}
	report := session.YankAll()
	if !report.Copied {
		if report.Err != nil {
			return report.Err
		}
		return errors.New(copyNothingMessage)
	}
	tokenLabel := utils.UnknownTokenLabel
	if report.TokensKnown {
		tokenLabel = utils.FormatTokenCount(report.Tokens)
	}
	if _, err := fmt.Fprintf(output, copyReportFormat, len(report.Document.Files), tokenLabel); err != nil {
		return err
	}
	return report.Err
}
