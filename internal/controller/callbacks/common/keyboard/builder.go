package keyboard

import "github.com/go-telegram/bot/models"

// Builder собирает inline клавиатуру по рядам
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Row добавляет ряд; пустые ряды пропускаются
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// Button создаёт callback-кнопку
func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, CallbackData: callbackData}
}

func (b *Builder) Empty() bool {
	return len(b.rows) == 0
}

// Build возвращает клавиатуру или nil, если рядов нет
func (b *Builder) Build() models.ReplyMarkup {
	if b.Empty() {
		return nil
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: b.rows}
}

// Markup клавиатура из одного ряда кнопок (nil для пустого ряда)
func Markup(buttons ...models.InlineKeyboardButton) models.ReplyMarkup {
	return NewBuilder().Row(buttons...).Build()
}
