package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	apierrors "github.com/bigkaa/goartstore/source-registry/internal/api/errors"
	"github.com/bigkaa/goartstore/source-registry/internal/domain/model"
)

// maxBodyBytes — лимит тела запроса.
const maxBodyBytes = 2 << 20

// rejection — отказ в разборе тела: статус и текст для клиента.
type rejection struct {
	status  int
	message string
}

func (r *rejection) write(w http.ResponseWriter) {
	apierrors.WriteError(w, r.status, r.message)
}

// Поля тела /user/create. Ключи сравниваются точно, с учётом регистра.
const (
	fieldPath        = "path"
	fieldHash        = "hash"
	fieldSize        = "size"
	fieldDateCreated = "date_created"
)

// decodeNewSourceFile разбирает тело в model.NewSourceFile.
// Неизвестные поля игнорируются, повтор известного поля — 422.
func decodeNewSourceFile(w http.ResponseWriter, r *http.Request) (model.NewSourceFile, *rejection) {
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		return model.NewSourceFile{}, &rejection{
			status:  http.StatusUnsupportedMediaType,
			message: "Expected request with `Content-Type: application/json`",
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.NewSourceFile{}, &rejection{
				status:  http.StatusRequestEntityTooLarge,
				message: "Failed to buffer the request body: length limit exceeded",
			}
		}
		return model.NewSourceFile{}, &rejection{
			status:  http.StatusBadRequest,
			message: "Failed to buffer the request body: " + err.Error(),
		}
	}

	// encoding/json молча заменяет битые байты на U+FFFD.
	if !utf8.Valid(body) {
		return model.NewSourceFile{}, syntaxRejection("invalid UTF-8 in request body")
	}

	// Синтаксис проверяется отдельно от формы: 400 против 422.
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return model.NewSourceFile{}, syntaxRejection(err.Error())
	}

	fields, rej := objectFields(raw)
	if rej != nil {
		return model.NewSourceFile{}, rej
	}

	var nf model.NewSourceFile
	for _, f := range []struct {
		name string
		dst  any
	}{
		{fieldPath, &nf.Path},
		{fieldHash, &nf.Hash},
		{fieldSize, &nf.Size},
		{fieldDateCreated, &nf.DateCreated},
	} {
		if rej := decodeField(fields, f.name, f.dst); rej != nil {
			return model.NewSourceFile{}, rej
		}
	}

	return nf, nil
}

// objectFields раскладывает JSON-объект верхнего уровня по ключам.
// Сохраняются только известные поля, их повтор — отказ.
func objectFields(raw json.RawMessage) (map[string]json.RawMessage, *rejection) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, shapeRejection(err.Error())
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, shapeRejection(fmt.Sprintf("invalid type: %s, expected struct NewSourceFile", jsonKind(tok)))
	}

	fields := make(map[string]json.RawMessage, 4)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, shapeRejection(err.Error())
		}
		key, _ := keyTok.(string)

		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, shapeRejection(err.Error())
		}

		switch key {
		case fieldPath, fieldHash, fieldSize, fieldDateCreated:
		default:
			continue
		}
		if _, dup := fields[key]; dup {
			return nil, shapeRejection(fmt.Sprintf("duplicate field `%s`", key))
		}
		fields[key] = val
	}

	return fields, nil
}

// decodeField читает одно обязательное поле в dst.
func decodeField(fields map[string]json.RawMessage, name string, dst any) *rejection {
	val, ok := fields[name]
	if !ok {
		return shapeRejection(missingField(name))
	}
	// null в string/int32 json.Unmarshal пропускает без ошибки
	if string(bytes.TrimSpace(val)) == "null" {
		return shapeRejection(name + ": invalid type: null")
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return shapeRejection(name + ": " + err.Error())
	}
	return nil
}

// jsonKind — название вида JSON-значения для текста отказа.
func jsonKind(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		if v == '[' {
			return "sequence"
		}
		return "map"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return "null"
	}
}

func syntaxRejection(detail string) *rejection {
	return &rejection{
		status:  http.StatusBadRequest,
		message: "Failed to parse the request body as JSON: " + detail,
	}
}

func shapeRejection(detail string) *rejection {
	return &rejection{
		status:  http.StatusUnprocessableEntity,
		message: "Failed to deserialize the JSON body into the target type: " + detail,
	}
}

func missingField(name string) string {
	return fmt.Sprintf("missing field `%s`", name)
}

// isJSONContentType принимает application/json и application/*+json.
func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	if mediaType == "application/json" {
		return true
	}
	return strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json")
}
