package scheduling

import "errors"

var (
	// ErrNoService возвращается, когда услуга для выбора не задана
	ErrNoService = errors.New("scheduling: service is not chosen")

	// ErrSlotNotOnGrid возвращается, когда время не совпадает ни с одной позицией сетки
	ErrSlotNotOnGrid = errors.New("scheduling: time is not a grid position")

	// ErrAlreadyBooked возвращается при клике на забронированный слот
	ErrAlreadyBooked = errors.New("scheduling: slot is already booked")

	// ErrNotOffered возвращается при клике на слот, который стилист не предлагает
	ErrNotOffered = errors.New("scheduling: slot is not offered")

	// ErrInsufficientCapacity возвращается, когда после слота недостаточно свободных слотов для услуги
	ErrInsufficientCapacity = errors.New("scheduling: not enough consecutive offered slots for the service")
)
