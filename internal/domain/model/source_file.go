// Пакет model — доменные модели Source Registry.
package model

import "github.com/bigkaa/goartstore/source-registry/internal/schema"

// SourceFile — сохранённая строка source_files в том виде,
// в каком её получают читатели.
// hash и size задаёт клиент, сервис их не вычисляет и не проверяет.
type SourceFile struct {
	Path        string `json:"path" gorm:"column:path"`
	Hash        string `json:"hash" gorm:"column:hash"`
	Size        int32  `json:"size" gorm:"column:size"`
	DateCreated string `json:"date_created" gorm:"column:date_created"`
}

// TableName — имя таблицы для gorm.
func (SourceFile) TableName() string {
	return schema.Table
}

// NewSourceFile — тело запроса на создание записи.
// Все четыре поля обязательны, серверных значений по умолчанию нет.
type NewSourceFile struct {
	Path        string `json:"path"`
	Hash        string `json:"hash"`
	Size        int32  `json:"size"`
	DateCreated string `json:"date_created"`
}

// Row возвращает строку для вставки. Формы совпадают поле в поле.
func (n NewSourceFile) Row() SourceFile {
	return SourceFile(n)
}
