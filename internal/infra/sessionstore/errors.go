package sessionstore

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("sessionstore: session not found")

	// ErrStore возвращается при ошибках хранилища
	ErrStore = errors.New("sessionstore: store error")
)
