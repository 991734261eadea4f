// Пакет errors — конструкторы ответов с ошибками.
// Формат: text/plain, тело — сообщение как есть.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors

import (
	"net/http"
)

// WriteError записывает ответ ошибки: статус-код и текстовое сообщение.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(message))
}

// --- Конструкторы для типичных ошибок ---

// NotFound — 404 маршрут не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// InternalError — 500 любая ошибка пула или БД, сообщение отдаётся клиенту без изменений.
func InternalError(w http.ResponseWriter, err error) {
	WriteError(w, http.StatusInternalServerError, err.Error())
}
