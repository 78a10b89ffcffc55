// Package locale provides the message catalog for user-facing waitlist text.
//
// Message keys are the English strings. English output falls back to the key
// itself, so only translations need catalog entries.
package locale

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys used by the view renderer and notices.
const (
	MsgAppTitle       = "Waitlist Frame"
	MsgWelcomeLead    = "Follow the account and the channel to join the exclusive waitlist"
	MsgJoin           = "Join"
	MsgStats          = "Stats"
	MsgCheckingTitle  = "Checking subscriptions..."
	MsgCheckingLead   = "This only takes a couple of seconds"
	MsgSuccessTitle   = "Congratulations!"
	MsgSuccessLead    = "You have been added to the waitlist. We will notify you at launch!"
	MsgViewStats      = "View stats"
	MsgHome           = "Home"
	MsgErrorTitle     = "Oops!"
	MsgErrorLead      = "To join the waitlist you need to:"
	MsgFollowAccount  = "Follow the account"
	MsgFollowChannel  = "Follow the channel"
	MsgBack           = "Back"
	MsgStatsTitle     = "Waitlist stats"
	MsgStatsLead      = "Current participant numbers"
	MsgTotal          = "Total participants"
	MsgVerified       = "Verified"
	MsgNoticeWelcome  = "Welcome to the waitlist!"
	MsgNoticeRejected = "Check your subscriptions"
	MsgNoticeNetwork  = "Connection failed"
	MsgMetric         = "Metric"
	MsgCount          = "Count"
)

var russian = map[string]string{
	MsgAppTitle:       "Waitlist Frame",
	MsgWelcomeLead:    "Подпишитесь на аккаунт и канал, чтобы присоединиться к эксклюзивному списку ожидания",
	MsgJoin:           "Присоединиться",
	MsgStats:          "Статистика",
	MsgCheckingTitle:  "Проверяем подписки...",
	MsgCheckingLead:   "Это займёт всего пару секунд",
	MsgSuccessTitle:   "Поздравляем!",
	MsgSuccessLead:    "Вы успешно добавлены в waitlist. Мы уведомим вас о запуске!",
	MsgViewStats:      "Посмотреть статистику",
	MsgHome:           "На главную",
	MsgErrorTitle:     "Упс!",
	MsgErrorLead:      "Для добавления в waitlist необходимо:",
	MsgFollowAccount:  "Подписаться на аккаунт",
	MsgFollowChannel:  "Подписаться на канал",
	MsgBack:           "Назад",
	MsgStatsTitle:     "Статистика Waitlist",
	MsgStatsLead:      "Актуальная информация о участниках",
	MsgTotal:          "Всего участников",
	MsgVerified:       "Верифицировано",
	MsgNoticeWelcome:  "Добро пожаловать в waitlist!",
	MsgNoticeRejected: "Проверьте подписки",
	MsgNoticeNetwork:  "Ошибка подключения",
	MsgMetric:         "Показатель",
	MsgCount:          "Количество",
}

// supported lists the catalog languages in matcher preference order.
var supported = []language.Tag{language.Russian, language.English}

var (
	cat     = newCatalog()
	matcher = language.NewMatcher(supported)
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range russian {
		if err := b.SetString(language.Russian, key, text); err != nil {
			panic(fmt.Sprintf("locale: register %q: %v", key, err))
		}
	}
	return b
}

// Default is the language used when no locale is configured.
var Default = language.Russian

// Supported returns the languages the catalog has text for.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Parse parses a BCP 47 tag and resolves it to the closest supported language.
func Parse(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", s, err)
	}
	return Match(tag), nil
}

// Match resolves tag to the closest supported language.
func Match(tag language.Tag) language.Tag {
	_, idx, _ := matcher.Match(tag)
	return supported[idx]
}

// NewPrinter returns a printer for tag. Printers are not safe for concurrent
// use; create one per render.
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(Match(tag), message.Catalog(cat))
}
