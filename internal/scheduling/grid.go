package scheduling

import "github.com/m04kA/SMC-SalonBooking/pkg/types"

// Interval одна позиция сетки рабочего дня
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// Grid упорядоченная последовательность смежных интервалов одинаковой длины
type Grid []Interval

// GenerateGrid делит рабочий день на интервалы длиной slotLength минут.
// Хвост короче slotLength отбрасывается. Для некорректных границ или
// неположительной длины возвращается пустая сетка.
func GenerateGrid(dayStart, dayEnd types.TimeString, slotLength int) Grid {
	start := dayStart.Minutes()
	end := dayEnd.Minutes()
	if slotLength <= 0 || start < 0 || end < 0 || end <= start {
		return Grid{}
	}

	grid := make(Grid, 0, (end-start)/slotLength)
	for m := start; m+slotLength <= end; m += slotLength {
		// границы уже проверены, ошибок здесь быть не может
		s, _ := types.TimeStringFromMinutes(m)
		e, _ := types.TimeStringFromMinutes(m + slotLength)
		grid = append(grid, Interval{Start: s, End: e})
	}

	return grid
}

// IndexOf возвращает индекс позиции с началом start или -1
func (g Grid) IndexOf(start types.TimeString) int {
	for i, iv := range g {
		if iv.Start == start {
			return i
		}
	}
	return -1
}
