// Пакет schema — статическое описание таблицы source_files.
// Репозиторий строит SQL только из этих констант, gorm-модель
// маппится на те же имена.
package schema

import "strings"

// Table — имя единственной таблицы.
const Table = "source_files"

// Столбцы source_files, видимые клиентам.
// Суррогатный ключ id сюда не входит.
const (
	ColPath        = "path"
	ColHash        = "hash"
	ColSize        = "size"
	ColDateCreated = "date_created"
)

// Columns — порядок столбцов для SELECT, INSERT и RETURNING.
var Columns = []string{ColPath, ColHash, ColSize, ColDateCreated}

// ColumnList возвращает столбцы через запятую: "path, hash, size, date_created".
func ColumnList() string {
	return strings.Join(Columns, ", ")
}
