package infrastructure

import (
	"io"

	"github.com/gocarina/gocsv"

	"github.com/Vaflel/spo-schedule/domain"
)

// ScheduleRecord строка CSV-выгрузки, одна пара дня
type ScheduleRecord struct {
	Day    string `csv:"День"`
	Pair   int    `csv:"Пара"`
	Lesson string `csv:"Занятие"`
}

// ScheduleRecords разворачивает расписание в плоский список строк.
// Классный час получает номер пары 0.
func ScheduleRecords(days []domain.DaySchedule) []*ScheduleRecord {
	records := []*ScheduleRecord{}
	for _, day := range days {
		for i, lesson := range day.Lessons {
			pair := day.StartPair + i
			if i < len(day.Pairs) {
				pair = day.Pairs[i]
			}
			records = append(records, &ScheduleRecord{
				Day:    day.Day,
				Pair:   pair,
				Lesson: lesson,
			})
		}
	}
	return records
}

// WriteScheduleCSV пишет расписание в CSV с заголовком
func WriteScheduleCSV(w io.Writer, days []domain.DaySchedule) error {
	records := ScheduleRecords(days)
	if len(records) == 0 {
		// для пустого расписания пишется только заголовок
		_, err := io.WriteString(w, "День,Пара,Занятие\n")
		return err
	}
	return gocsv.Marshal(records, w)
}
