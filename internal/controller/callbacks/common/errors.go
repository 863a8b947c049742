package common

import (
	"errors"

	"github.com/Freeeeeet/slot_swapper/internal/model"
)

// Ошибки разбора данных от Telegram
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	}

	switch model.KindOf(err) {
	case model.KindNotFound:
		return "❌ Не найдено. Проверьте идентификатор"
	case model.KindUnauthorized:
		return "❌ У вас нет прав на это действие"
	case model.KindInvalidInput:
		return "❌ Неверные данные: " + messageOf(err)
	case model.KindInvalidTransition:
		return "❌ Это действие недоступно в текущем статусе слота"
	case model.KindInvalidState:
		return "❌ Слоты сейчас не могут участвовать в обмене"
	case model.KindConflict:
		return "⚠️ Данные изменились одновременно с вашим запросом. Обновите список и попробуйте снова"
	case model.KindAlreadyResolved:
		return "ℹ️ Заявка уже завершена"
	case model.KindSlotNoLongerAvailable:
		return "⚠️ Слот уже недоступен: его успели предложить в другой заявке"
	default:
		return "❌ Произошла ошибка. Попробуйте позже"
	}
}

// IsInternal сообщает, что ошибка не относится к ожидаемым ошибкам домена
func IsInternal(err error) bool {
	if errors.Is(err, ErrNoMessage) || errors.Is(err, ErrInvalidFormat) {
		return false
	}
	return model.KindOf(err) == model.KindInternal
}

func messageOf(err error) string {
	var domainErr *model.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}
