// Package keyboard builds the reply keyboards presented to learners.
package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/newslingo/newslingo-bot/internal/language"
)

// LanguagePicker builds a one-time reply keyboard with one row per catalog
// language, in catalog order. The same picker serves both onboarding steps.
func LanguagePicker() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}

	labels := language.Labels()
	rows := make([]telebot.Row, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, markup.Row(markup.Text(label)))
	}

	markup.Reply(rows...)

	return markup
}
