// Package tui is the terminal front end of ctxdrop built on bubbletea. It
// renders the workspace rows, dispatches keys to the session and runs scans
// and token passes as commands whose results come back as messages.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/temirov/ctxdrop/internal/services/watch"
	"github.com/temirov/ctxdrop/internal/types"
	"github.com/temirov/ctxdrop/internal/utils"
	"github.com/temirov/ctxdrop/internal/workspace"
)

const (
	addPromptLabel          = "add path: "
	addPromptPlaceholder    = "~/project or drop files here"
	searchPromptLabel       = "search: "
	searchPromptPlaceholder = "fuzzy path"
	logMessageWatchRoot     = "failed to watch root"
	logFieldRoot            = "root"
	logMessageToggleSetting = "failed to toggle setting"
	logFieldSetting         = "setting"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptAdd
	promptSearch
)

// Options configures the model. Watcher may be nil to disable live refresh.
type Options struct {
	Context      context.Context
	Session      *workspace.Session
	Watcher      *watch.Watcher
	InitialPaths []string
	Logger       *zap.Logger
}

// Model is the bubbletea model of the list view.
type Model struct {
	ctx            context.Context
	session        *workspace.Session
	watcher        *watch.Watcher
	logger         *zap.Logger
	initialPaths   []string
	keys           keyMap
	settingsKeys   settingsKeyMap
	help           help.Model
	spinner        spinner.Model
	input          textinput.Model
	prompt         promptKind
	settingsOpen   bool
	settingsCursor int
	theme          theme
	width          int
	height         int
	offset         int
	quitting       bool
}

// New builds the model around a session.
func New(options Options) *Model {
	ctx := options.Context
	if ctx == nil {
		ctx = context.Background()
	}
	busySpinner := spinner.New()
	busySpinner.Spinner = spinner.Dot
	input := textinput.New()

	return &Model{
		ctx:          ctx,
		session:      options.Session,
		watcher:      options.Watcher,
		logger:       utils.LoggerOrNop(options.Logger),
		initialPaths: options.InitialPaths,
		keys:         defaultKeyMap(),
		settingsKeys: defaultSettingsKeyMap(),
		help:         help.New(),
		spinner:      busySpinner,
		input:        input,
		theme:        newTheme(options.Session.Settings().DarkMode),
	}
}

// Init starts the spinner, the initial scan and the watcher wait.
func (model *Model) Init() tea.Cmd {
	commands := []tea.Cmd{model.spinner.Tick, waitForChange(model.watcher)}
	if request, issued := model.session.AddPaths(model.initialPaths); issued {
		commands = append(commands, scanCommand(model.ctx, request))
	}
	return tea.Batch(commands...)
}

// Update applies one message.
func (model *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		model.width = msg.Width
		model.height = msg.Height
		model.help.Width = msg.Width
		model.input.Width = msg.Width - len(addPromptLabel) - 1
		model.scrollToCursor()
		return model, nil
	case spinner.TickMsg:
		var command tea.Cmd
		model.spinner, command = model.spinner.Update(msg)
		return model, command
	case scanFinishedMsg:
		return model, model.applyScan(msg)
	case tokensFinishedMsg:
		model.session.ApplyTokens(msg.result)
		return model, nil
	case watchChangeMsg:
		return model, tea.Batch(model.refreshFor(msg.change), waitForChange(model.watcher))
	case tea.KeyMsg:
		return model, model.handleKey(msg)
	}
	return model, nil
}

func (model *Model) applyScan(msg scanFinishedMsg) tea.Cmd {
	if !model.session.ApplyScan(msg.result) {
		return nil
	}
	model.watchRoots()
	model.scrollToCursor()
	return model.tokenPass()
}

func (model *Model) tokenPass() tea.Cmd {
	request, issued := model.session.TokenPass()
	if !issued {
		return nil
	}
	return tokenCommand(model.ctx, request)
}

func (model *Model) addPaths(paths []string) tea.Cmd {
	request, issued := model.session.AddPaths(paths)
	if !issued {
		return nil
	}
	return scanCommand(model.ctx, request)
}

func (model *Model) refresh() tea.Cmd {
	request, issued := model.session.Refresh()
	if !issued {
		return nil
	}
	return scanCommand(model.ctx, request)
}

// refreshFor rescans when a change touches one of the current roots.
func (model *Model) refreshFor(change watch.Change) tea.Cmd {
	for _, changedPath := range change.Paths {
		for _, rootPath := range model.session.Tree().RootPaths() {
			if utils.IsWithin(changedPath, rootPath) {
				return model.refresh()
			}
		}
	}
	return nil
}

func (model *Model) watchRoots() {
	if model.watcher == nil {
		return
	}
	for _, rootPath := range model.session.Tree().RootPaths() {
		if err := model.watcher.WatchTree(rootPath); err != nil {
			model.logger.Warn(logMessageWatchRoot, zap.String(logFieldRoot, rootPath), zap.Error(err))
		}
	}
}

func (model *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if model.prompt != promptNone {
		return model.handlePromptKey(msg)
	}
	if msg.Paste {
		return model.addPaths(ParseDroppedPaths(string(msg.Runes)))
	}
	if model.settingsOpen {
		return model.handleSettingsKey(msg)
	}

	session := model.session
	var command tea.Cmd
	switch {
	case key.Matches(msg, model.keys.Quit):
		model.quitting = true
		return tea.Quit
	case key.Matches(msg, model.keys.Help):
		model.help.ShowAll = !model.help.ShowAll
	case key.Matches(msg, model.keys.Down):
		session.MoveDown()
	case key.Matches(msg, model.keys.Up):
		session.MoveUp()
	case key.Matches(msg, model.keys.First):
		session.JumpFirst()
	case key.Matches(msg, model.keys.Last):
		session.JumpLast()
	case key.Matches(msg, model.keys.Enter):
		session.EnterFolder()
	case key.Matches(msg, model.keys.Leave):
		session.LeaveFolder()
	case key.Matches(msg, model.keys.Toggle):
		session.ToggleFolder()
	case key.Matches(msg, model.keys.Visual):
		session.EnterVisual()
	case key.Matches(msg, model.keys.VisualLine):
		session.EnterVisualLine()
	case key.Matches(msg, model.keys.Escape):
		session.Escape()
	case key.Matches(msg, model.keys.Yank):
		session.Yank()
	case key.Matches(msg, model.keys.YankAll):
		session.YankAll()
	case key.Matches(msg, model.keys.Delete):
		session.Delete()
	case key.Matches(msg, model.keys.Clear):
		session.Clear()
		model.offset = 0
	case key.Matches(msg, model.keys.Refresh):
		command = model.refresh()
	case key.Matches(msg, model.keys.Add):
		command = model.openPrompt(promptAdd)
	case key.Matches(msg, model.keys.Search):
		command = model.openPrompt(promptSearch)
	case key.Matches(msg, model.keys.Settings):
		model.settingsOpen = true
		model.settingsCursor = 0
	}
	model.scrollToCursor()
	return command
}

func (model *Model) openPrompt(kind promptKind) tea.Cmd {
	model.prompt = kind
	model.input.Reset()
	switch kind {
	case promptAdd:
		model.input.Prompt = addPromptLabel
		model.input.Placeholder = addPromptPlaceholder
	case promptSearch:
		model.input.Prompt = searchPromptLabel
		model.input.Placeholder = searchPromptPlaceholder
	}
	return model.input.Focus()
}

func (model *Model) closePrompt() {
	model.prompt = promptNone
	model.input.Blur()
	model.input.Reset()
}

func (model *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		model.closePrompt()
		return nil
	case tea.KeyCtrlC:
		model.quitting = true
		return tea.Quit
	case tea.KeyEnter:
		value := model.input.Value()
		kind := model.prompt
		model.closePrompt()
		if kind == promptSearch {
			model.session.Search(value)
			model.scrollToCursor()
			return nil
		}
		return model.addPaths(ParseDroppedPaths(value))
	}
	var command tea.Cmd
	model.input, command = model.input.Update(msg)
	return command
}

func (model *Model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, model.keys.Quit) && msg.Type == tea.KeyCtrlC:
		model.quitting = true
		return tea.Quit
	case key.Matches(msg, model.settingsKeys.Close):
		model.settingsOpen = false
	case key.Matches(msg, model.settingsKeys.Down):
		if model.settingsCursor < len(types.SettingKeys)-1 {
			model.settingsCursor++
		}
	case key.Matches(msg, model.settingsKeys.Up):
		if model.settingsCursor > 0 {
			model.settingsCursor--
		}
	case key.Matches(msg, model.settingsKeys.Toggle):
		settingKey := types.SettingKeys[model.settingsCursor]
		if err := model.session.ToggleSetting(settingKey); err != nil {
			model.logger.Warn(logMessageToggleSetting, zap.String(logFieldSetting, settingKey), zap.Error(err))
		}
		model.theme = newTheme(model.session.Settings().DarkMode)
		model.scrollToCursor()
		if settingKey == types.SettingShowTokenCount {
			return model.tokenPass()
		}
	}
	return nil
}

// listHeight is the number of rows that fit between header and footer.
func (model *Model) listHeight() int {
	if model.height <= 0 {
		return len(model.session.Rows())
	}
	reserved := headerLines + footerLines
	if model.help.ShowAll {
		reserved += len(model.keys.FullHelp())
	} else {
		reserved++
	}
	if available := model.height - reserved; available > 1 {
		return available
	}
	return 1
}

func (model *Model) scrollToCursor() {
	height := model.listHeight()
	cursor := model.session.Cursor()
	if cursor < model.offset {
		model.offset = cursor
	}
	if height > 0 && cursor >= model.offset+height {
		model.offset = cursor - height + 1
	}
	if maximum := len(model.session.Rows()) - height; model.offset > maximum {
		model.offset = maximum
	}
	if model.offset < 0 {
		model.offset = 0
	}
}
