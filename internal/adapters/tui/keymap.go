package tui

import (
	"moderation-console/internal/core/moderation"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Клавиши команд карточки (a, d, стрелки) и "/" сопоставляет KeyDispatcher,
// здесь только подсказки к ним и остальные клавиши экранов.
type keyMap struct {
	Quit key.Binding

	Up, Down, Open       key.Binding
	Search, Price        key.Binding
	ToggleStatus         key.Binding
	Category             key.Binding
	Sort, Order          key.Binding
	NextPage, PrevPage   key.Binding
	Reset, Refresh       key.Binding
	HistBack, HistFwd    key.Binding
	Stats                key.Binding
	Approve, Reject      key.Binding
	RequestChanges, Back key.Binding
	NextAd, PrevAd       key.Binding
	Period               key.Binding
}

var keys = keyMap{
	Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "выход")),
	Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "вверх")),
	Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "вниз")),
	Open:           key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "открыть")),
	Search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "поиск")),
	Price:          key.NewBinding(key.WithKeys("$"), key.WithHelp("$", "цена")),
	ToggleStatus:   key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "статусы")),
	Category:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "категория")),
	Sort:           key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "сортировка")),
	Order:          key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "порядок")),
	NextPage:       key.NewBinding(key.WithKeys("pgdown", "n"), key.WithHelp("n", "след. стр.")),
	PrevPage:       key.NewBinding(key.WithKeys("pgup", "p"), key.WithHelp("p", "пред. стр.")),
	Reset:          key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "сбросить фильтры")),
	Refresh:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "обновить")),
	HistBack:       key.NewBinding(key.WithKeys("["), key.WithHelp("[", "назад")),
	HistFwd:        key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "вперед")),
	Stats:          key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "статистика")),
	Approve:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "одобрить")),
	Reject:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "отклонить")),
	RequestChanges: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "на доработку")),
	Back:           key.NewBinding(key.WithKeys("esc", "backspace", "b"), key.WithHelp("esc", "к списку")),
	NextAd:         key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "следующее")),
	PrevAd:         key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "предыдущее")),
	Period:         key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "период")),
}

// keyName переводит нажатие bubbletea в имя клавиши диспетчера.
func keyName(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyRight:
		return moderation.KeyArrowRight
	case tea.KeyLeft:
		return moderation.KeyArrowLeft
	}
	return msg.String()
}
