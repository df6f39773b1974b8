package moderation

import (
	"fmt"
	"strings"
)

// Command - закрытый набор команд клавиатуры.
type Command int

const (
	CommandNone Command = iota
	CommandApprove
	CommandOpenRejectPrompt
	CommandNext
	CommandPrevious
	CommandFocusSearch
)

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandApprove:
		return "approve"
	case CommandOpenRejectPrompt:
		return "open_reject_prompt"
	case CommandNext:
		return "next"
	case CommandPrevious:
		return "previous"
	case CommandFocusSearch:
		return "focus_search"
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Имена непечатных клавиш.
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
)

// TargetKind - элемент, в фокусе которого пришло нажатие.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetTextInput
	TargetTextArea
	TargetButton
)

// IsTextEntry - поля ввода текста, нажатия в которых не трактуются как команды.
func (t TargetKind) IsTextEntry() bool {
	return t == TargetTextInput || t == TargetTextArea
}

// View - экран, на котором находится модератор.
type View int

const (
	ViewList View = iota
	ViewDetail
)

type KeyEvent struct {
	Key    string
	Target TargetKind
}

// DispatchContext - состояние экрана, нужное для сопоставления клавиши.
// CurrentID имеет смысл только на карточке объявления.
type DispatchContext struct {
	View      View
	CurrentID int64
}

// Dispatch - результат сопоставления. PreventDefault означает, что символ
// не должен попасть в поле ввода, получившее фокус.
type Dispatch struct {
	Command        Command
	PreventDefault bool
}

// KeyDispatcher - чистое отображение нажатий в команды, без состояния.
type KeyDispatcher struct{}

func NewKeyDispatcher() *KeyDispatcher {
	return &KeyDispatcher{}
}

func (KeyDispatcher) Dispatch(ev KeyEvent, dc DispatchContext) Dispatch {
	if ev.Target.IsTextEntry() {
		return Dispatch{Command: CommandNone}
	}

	switch dc.View {
	case ViewList:
		if ev.Key == "/" {
			return Dispatch{Command: CommandFocusSearch, PreventDefault: true}
		}
	case ViewDetail:
		switch strings.ToLower(ev.Key) {
		case "a":
			return Dispatch{Command: CommandApprove}
		case "d":
			return Dispatch{Command: CommandOpenRejectPrompt}
		case strings.ToLower(KeyArrowRight):
			return Dispatch{Command: CommandNext}
		case strings.ToLower(KeyArrowLeft):
			if _, ok := Previous(dc.CurrentID); ok {
				return Dispatch{Command: CommandPrevious}
			}
		}
	}
	return Dispatch{Command: CommandNone}
}
