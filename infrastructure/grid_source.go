package infrastructure

// Источники листа расписания. Лист читается целиком в позиционную таблицу
// строк (первая строка содержит заголовок, имена колонок не выделяются), дальше с ним
// работает пакет domain.
//
// Поддерживаются:
// - .xlsx через github.com/xuri/excelize/v2 (первый лист книги);
// - .xls через github.com/extrame/xls (первый лист, кодировка по умолчанию windows-1251).

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/Vaflel/spo-schedule/domain"
)

const (
	defaultXLSCharset = "windows-1251"
	maxXLSColumns     = 256
)

// GridLoader общий интерфейс источников листа
type GridLoader interface {
	LoadGrid() (domain.Grid, error)
}

// XLSXGridSource читает первый лист .xlsx файла
type XLSXGridSource struct {
	filename string
}

func NewXLSXGridSource(filename string) *XLSXGridSource {
	return &XLSXGridSource{filename: filename}
}

// LoadGrid открывает книгу и возвращает первый лист
func (s *XLSXGridSource) LoadGrid() (domain.Grid, error) {
	f, err := excelize.OpenFile(s.filename)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть %s: %w", s.filename, err)
	}
	defer f.Close()

	return firstSheetGrid(f)
}

// ReadXLSXGrid разбирает .xlsx из потока, например из тела HTTP-ответа
func ReadXLSXGrid(r io.Reader) (domain.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть книгу: %w", err)
	}
	defer f.Close()

	return firstSheetGrid(f)
}

func firstSheetGrid(f *excelize.File) (domain.Grid, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("в книге нет листов")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать лист %s: %w", sheets[0], err)
	}

	return domain.GridFromRows(rows), nil
}

// XLSGridSource читает первый лист старого формата .xls
type XLSGridSource struct {
	filename string
	charset  string
}

func NewXLSGridSource(filename, charset string) *XLSGridSource {
	if charset == "" {
		charset = defaultXLSCharset
	}
	return &XLSGridSource{filename: filename, charset: charset}
}

func (s *XLSGridSource) LoadGrid() (domain.Grid, error) {
	file, err := xls.Open(s.filename, s.charset)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть %s: %w", s.filename, err)
	}
	// книга без потока Workbook открывается без ошибки, но пустой
	if file == nil {
		return nil, fmt.Errorf("в файле %s нет книги Excel", s.filename)
	}

	sheet := file.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("в файле %s нет листов", s.filename)
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		rows = append(rows, xlsRow(sheet, i))
	}

	return domain.GridFromRows(rows), nil
}

// xlsRow читает ячейки строки. Для строки без записей extrame/xls паникует
// на sheet.Row(i), такая строка считается пустой.
func xlsRow(sheet *xls.WorkSheet, i int) (cells []string) {
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()

	row := sheet.Row(i)
	width := row.LastCol()
	// без записи ROW ширина строки неизвестна
	if width <= 0 {
		width = maxXLSColumns
	}

	cells = make([]string, 0, width)
	for col := 0; col < width; col++ {
		cells = append(cells, row.Col(col))
	}
	for len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// NewFileGridSource выбирает источник по расширению файла; charset используется только для .xls
func NewFileGridSource(filename, charset string) (GridLoader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return NewXLSXGridSource(filename), nil
	case ".xls":
		return NewXLSGridSource(filename, charset), nil
	default:
		return nil, fmt.Errorf("неподдерживаемый формат расписания: %s", filename)
	}
}
