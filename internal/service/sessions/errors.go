package sessions

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("sessions: invalid input data")

	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("sessions: session not found")

	// ErrAccessDenied возвращается при обращении к чужой сессии
	ErrAccessDenied = errors.New("sessions: access denied")

	// ErrNotClient возвращается, когда бронировать пытается не клиент
	ErrNotClient = errors.New("sessions: only clients can book")

	// ErrDateInPast возвращается для даты раньше сегодняшней
	ErrDateInPast = errors.New("sessions: date is in the past")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("sessions: service not found")

	// ErrStylistNotFound возвращается, когда стилист не найден
	ErrStylistNotFound = errors.New("sessions: stylist not found")

	// ErrOperationPending возвращается, пока в сессии выполняется подтверждение
	ErrOperationPending = errors.New("sessions: operation is pending")

	// ErrAlreadyBooked возвращается при выборе забронированного слота
	ErrAlreadyBooked = errors.New("sessions: slot is already booked")

	// ErrNotOffered возвращается при выборе слота, который не предлагается
	ErrNotOffered = errors.New("sessions: slot is not offered")

	// ErrInsufficientCapacity возвращается, когда с выбранного слота не помещается услуга
	ErrInsufficientCapacity = errors.New("sessions: not enough consecutive slots")

	// ErrSlotNotOnGrid возвращается, когда время не совпадает с позицией сетки
	ErrSlotNotOnGrid = errors.New("sessions: time is not a grid position")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("sessions: internal error")
)
