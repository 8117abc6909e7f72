package confirm_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_reservation: invalid input data")

	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("confirm_reservation: session not found")

	// ErrAccessDenied возвращается, когда сессия принадлежит другому пользователю
	ErrAccessDenied = errors.New("confirm_reservation: access denied")

	// ErrNotClient возвращается, когда подтверждает не клиент
	ErrNotClient = errors.New("confirm_reservation: only clients can book")

	// ErrEmptySelection возвращается, когда в сессии не выбран блок
	ErrEmptySelection = errors.New("confirm_reservation: no block selected")

	// ErrOperationPending возвращается, когда по сессии уже идет подтверждение
	ErrOperationPending = errors.New("confirm_reservation: another operation is pending")

	// ErrServiceNotFound возвращается, когда услуга сессии не найдена
	ErrServiceNotFound = errors.New("confirm_reservation: service not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_reservation: internal error")
)
