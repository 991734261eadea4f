// handler.go — обработчики API Source Registry.
// Каждый запрос — одна операция репозитория, ответ — JSON или text/plain ошибка.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bigkaa/goartstore/source-registry/internal/api/generated"
	"github.com/bigkaa/goartstore/source-registry/internal/domain/model"
)

// SourceFileStore — операции над source_files, нужные обработчикам.
// Реализуется repository.SourceFileRepository.
type SourceFileStore interface {
	List(ctx context.Context) ([]model.SourceFile, error)
	Create(ctx context.Context, nf model.NewSourceFile) (model.SourceFile, error)
}

// APIHandler — обработчик API.
// Реализует generated.ServerInterface; Fallback подключается к роутеру отдельно.
type APIHandler struct {
	store  SourceFileStore
	logger *slog.Logger
}

var _ generated.ServerInterface = (*APIHandler)(nil)

// NewAPIHandler создаёт обработчик API.
func NewAPIHandler(store SourceFileStore, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		store:  store,
		logger: logger.With(slog.String("component", "api_handler")),
	}
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
