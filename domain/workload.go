package domain

// Академических часов в одной паре
const hoursPerPair = 2

// LoadLimits задаёт пороги нагрузки за день
type LoadLimits struct {
	MaxHours   int // академических часов
	MaxWindows int // пустых пар между занятиями
}

// DefaultLoadLimits: 10 академических часов и два окна в день
var DefaultLoadLimits = LoadLimits{MaxHours: 10, MaxWindows: 2}

// DayLoad описывает нагрузку одного дня
type DayLoad struct {
	Day        string `json:"day"`
	Pairs      int    `json:"pairs"`
	Hours      int    `json:"hours"`
	Windows    int    `json:"windows"`
	ClassHour  bool   `json:"classHour"`
	Overloaded bool   `json:"overloaded"`
}

// SummarizeLoad считает пары, часы и окна по каждому дню расписания.
// Классный час в нагрузку не входит.
func SummarizeLoad(days []DaySchedule, limits LoadLimits) []DayLoad {
	loads := make([]DayLoad, 0, len(days))

	for _, day := range days {
		load := DayLoad{Day: day.Day}

		minPair, maxPair := 0, 0
		for _, pair := range day.Pairs {
			if pair == 0 {
				load.ClassHour = true
				continue
			}
			if load.Pairs == 0 || pair < minPair {
				minPair = pair
			}
			if pair > maxPair {
				maxPair = pair
			}
			load.Pairs++
		}

		load.Hours = load.Pairs * hoursPerPair
		if load.Pairs > 0 {
			load.Windows = maxPair - minPair + 1 - load.Pairs
		}
		load.Overloaded = load.Hours > limits.MaxHours || load.Windows > limits.MaxWindows

		loads = append(loads, load)
	}

	return loads
}
