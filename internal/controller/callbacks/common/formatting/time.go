package formatting

import (
	"fmt"
	"time"
)

// Форматы ввода и вывода времени в боте; все времена в UTC
const (
	DateTimeLayout = "02.01.2006 15:04"
	TimeLayout     = "15:04"
)

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.UTC().Format(TimeLayout), end.UTC().Format(TimeLayout))
}

// FormatPeriod форматирует интервал слота: в пределах одного дня дата пишется один раз
func FormatPeriod(start, end time.Time) string {
	start, end = start.UTC(), end.UTC()
	if start.Year() == end.Year() && start.YearDay() == end.YearDay() {
		return fmt.Sprintf("%s (%s) %s UTC",
			start.Format("02.01.2006"), GetWeekdayShortName(int(start.Weekday())), FormatTimeRange(start, end))
	}
	return fmt.Sprintf("%s - %s UTC", FormatDateTime(start), FormatDateTime(end))
}

// ParseDateTime разбирает дату в формате ДД.ММ.ГГГГ ЧЧ:ММ как UTC
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, s, time.UTC)
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(weekday int) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "?"
}
