package utils

import "time"

// StartOfDay retorna a meia-noite do dia de t, no fuso de t
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// StartOfMonth retorna a meia-noite do primeiro dia do mês de t, no fuso de t
func StartOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}

// MonthKey formata o mês de referência como yyyy-mm
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
