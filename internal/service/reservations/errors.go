package reservations

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reservations: invalid input data")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("reservations: service not found")

	// ErrInvalidBlock возвращается, когда слоты не образуют блок услуги
	ErrInvalidBlock = errors.New("reservations: slots do not form a block for the service")

	// ErrSlotTaken возвращается, когда хотя бы один слот блока уже занят или закрыт
	ErrSlotTaken = errors.New("reservations: slot is no longer available")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("reservations: slot not found")

	// ErrNotBooked возвращается при отмене свободного слота
	ErrNotBooked = errors.New("reservations: slot is not booked")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на отмену
	ErrAccessDenied = errors.New("reservations: access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservations: internal error")
)
