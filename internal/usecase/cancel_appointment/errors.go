package cancel_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_appointment: invalid input data")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("cancel_appointment: slot not found")

	// ErrNotBooked возвращается, когда слот не относится ни к одной записи
	ErrNotBooked = errors.New("cancel_appointment: slot is not booked")

	// ErrAccessDenied возвращается, когда пользователь не может отменить эту запись
	ErrAccessDenied = errors.New("cancel_appointment: access denied")

	// ErrIncompleteRelease возвращается, если после отмены хотя бы один слот записи остался занятым
	ErrIncompleteRelease = errors.New("cancel_appointment: appointment was not released completely")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_appointment: internal error")
)
