// source_files.go — обработчики /user/list и /user/create.
package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/goartstore/source-registry/internal/api/errors"
	"github.com/bigkaa/goartstore/source-registry/internal/api/generated"
	"github.com/bigkaa/goartstore/source-registry/internal/domain/model"
)

// ListSourceFiles — GET /user/list.
// Полный скан таблицы, без фильтров и пагинации.
func (h *APIHandler) ListSourceFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения списка source_files", slog.String("error", err.Error()))
		apierrors.InternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sourceFilesToResponse(files))
}

// CreateSourceFile — POST /user/create.
// Тело разбирается до обращения к БД; ошибки разбора — 400/413/415/422.
func (h *APIHandler) CreateSourceFile(w http.ResponseWriter, r *http.Request) {
	nf, rej := decodeNewSourceFile(w, r)
	if rej != nil {
		rej.write(w)
		return
	}

	h.logger.Info("Создание source_file",
		slog.String("path", nf.Path),
		slog.String("hash", nf.Hash),
		slog.Int("size", int(nf.Size)),
		slog.String("date_created", nf.DateCreated),
	)

	created, err := h.store.Create(r.Context(), nf)
	if err != nil {
		h.logger.Error("Ошибка создания source_file",
			slog.String("path", nf.Path),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sourceFileToResponse(created))
}

// Fallback — любой запрос, не совпавший с маршрутом (включая неверный метод).
func (h *APIHandler) Fallback(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Путь не найден",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	apierrors.NotFound(w, "No route for "+r.URL.RequestURI())
}

// --- Маппинг model → generated ---

// sourceFilesToResponse — всегда непустой срез, пустая таблица даёт [].
func sourceFilesToResponse(files []model.SourceFile) []generated.SourceFile {
	items := make([]generated.SourceFile, 0, len(files))
	for _, f := range files {
		items = append(items, sourceFileToResponse(f))
	}
	return items
}

func sourceFileToResponse(f model.SourceFile) generated.SourceFile {
	return generated.SourceFile{
		Path:        f.Path,
		Hash:        f.Hash,
		Size:        f.Size,
		DateCreated: f.DateCreated,
	}
}
