package calendar

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("calendar: invalid input data")

	// ErrAccessDenied возвращается, когда пользователь не может управлять календарем стилиста
	ErrAccessDenied = errors.New("calendar: access denied")

	// ErrStylistNotFound возвращается, когда стилист не найден
	ErrStylistNotFound = errors.New("calendar: stylist not found")

	// ErrNotOnGrid возвращается, когда время не совпадает с позицией сетки дня
	ErrNotOnGrid = errors.New("calendar: start time is not on the day grid")

	// ErrSlotAlreadyExists возвращается, когда слот на этой позиции уже открыт
	ErrSlotAlreadyExists = errors.New("calendar: slot already exists")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("calendar: slot not found")

	// ErrSlotBooked возвращается при попытке закрыть или открыть занятый слот
	ErrSlotBooked = errors.New("calendar: slot is booked")

	// ErrDateInPast возвращается для дат раньше сегодняшней
	ErrDateInPast = errors.New("calendar: date is in the past")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("calendar: internal error")
)
