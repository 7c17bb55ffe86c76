package domain

import (
	"sort"
	"time"

	"github.com/carosellagiuliano-max/salon-booking-service/pkg/types"
)

// Interval represents a half-open time interval [StartMin, EndMin)
// measured in whole minutes since local midnight. All slot arithmetic
// is done on these integer intervals - wall-clock values are converted
// once at the boundary and never compared as raw timestamps.
type Interval struct {
	StartMin int
	EndMin   int
}

// NewInterval creates an interval from start/end minutes since midnight
func NewInterval(startMin, endMin int) Interval {
	return Interval{StartMin: startMin, EndMin: endMin}
}

// IsEmpty returns true if the interval contains no minutes
func (i Interval) IsEmpty() bool {
	return i.StartMin >= i.EndMin
}

// Duration returns the interval length in minutes
func (i Interval) Duration() int {
	if i.IsEmpty() {
		return 0
	}
	return i.EndMin - i.StartMin
}

// Overlaps returns true if the two half-open intervals share at least one minute
// Граничащие интервалы (конец одного == начало другого) НЕ пересекаются
func (i Interval) Overlaps(other Interval) bool {
	if i.IsEmpty() || other.IsEmpty() {
		return false
	}
	return i.StartMin < other.EndMin && other.StartMin < i.EndMin
}

// Intersect returns the overlap of two intervals (possibly empty)
func (i Interval) Intersect(other Interval) Interval {
	result := Interval{
		StartMin: maxInt(i.StartMin, other.StartMin),
		EndMin:   minInt(i.EndMin, other.EndMin),
	}
	if result.IsEmpty() {
		return Interval{}
	}
	return result
}

// Contains returns true if other lies fully inside i
func (i Interval) Contains(other Interval) bool {
	if i.IsEmpty() || other.IsEmpty() {
		return false
	}
	return i.StartMin <= other.StartMin && other.EndMin <= i.EndMin
}

// SubtractAll вычитает из окна все занятые интервалы и возвращает
// упорядоченный список непересекающихся свободных подинтервалов
func SubtractAll(window Interval, busy []Interval) []Interval {
	free := make([]Interval, 0, len(busy)+1)
	if window.IsEmpty() {
		return free
	}

	// Оставляем только интервалы, реально пересекающиеся с окном
	relevant := make([]Interval, 0, len(busy))
	for _, b := range busy {
		if b.Overlaps(window) {
			relevant = append(relevant, b.Intersect(window))
		}
	}

	sort.Slice(relevant, func(i, j int) bool {
		if relevant[i].StartMin != relevant[j].StartMin {
			return relevant[i].StartMin < relevant[j].StartMin
		}
		return relevant[i].EndMin < relevant[j].EndMin
	})

	cursor := window.StartMin
	for _, b := range relevant {
		if b.StartMin > cursor {
			free = append(free, Interval{StartMin: cursor, EndMin: b.StartMin})
		}
		if b.EndMin > cursor {
			cursor = b.EndMin
		}
	}

	if cursor < window.EndMin {
		free = append(free, Interval{StartMin: cursor, EndMin: window.EndMin})
	}

	return free
}

// WorkingWindow represents the opening window for one weekday,
// either for the salon as a whole or for an individual staff member.
type WorkingWindow struct {
	Weekday   time.Weekday
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// Interval resolves the window to a concrete interval in minutes since midnight
// Закрытый день и некорректная конфигурация (open >= close, битый формат)
// трактуются как "закрыто", а не как ошибка - одна плохая строка в расписании
// не должна ронять выдачу слотов всего салона
func (w WorkingWindow) Interval() (Interval, bool) {
	if !w.IsOpen {
		return Interval{}, false
	}

	openMin, err := w.OpenTime.Minutes()
	if err != nil {
		return Interval{}, false
	}
	closeMin, err := w.CloseTime.Minutes()
	if err != nil {
		return Interval{}, false
	}
	if openMin >= closeMin {
		return Interval{}, false
	}

	return Interval{StartMin: openMin, EndMin: closeMin}, true
}

// ClipToDay проецирует абсолютный интервал [startAt, endAt) на конкретную дату
// в указанной таймзоне и возвращает его в минутах с начала этих суток
// Возвращает false, если интервал не задевает указанную дату
func ClipToDay(startAt, endAt time.Time, date time.Time, loc *time.Location) (Interval, bool) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	start := startAt.In(loc)
	end := endAt.In(loc)

	if !start.Before(end) {
		return Interval{}, false
	}
	if !start.Before(dayEnd) || !end.After(dayStart) {
		return Interval{}, false
	}

	startMin := 0
	if start.After(dayStart) {
		startMin = int(start.Sub(dayStart).Minutes())
	}

	endMin := 24 * 60
	if end.Before(dayEnd) {
		// Конец округляем вверх до целой минуты: занятый интервал
		// может только расширяться при проекции, но не сжиматься
		d := end.Sub(dayStart)
		endMin = int((d + time.Minute - 1) / time.Minute)
	}

	clipped := Interval{StartMin: startMin, EndMin: endMin}
	if clipped.IsEmpty() {
		return Interval{}, false
	}
	return clipped, true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
