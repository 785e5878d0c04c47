package entity

import "time"

// DateLayout formato ISO-8601 de fecha de calendario usado en la API.
const DateLayout = "2006-01-02"

// DateOf trunca t a la fecha de calendario (medianoche UTC), conservando año, mes y día locales de t.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today devuelve la fecha de hoy.
func Today() time.Time {
	return DateOf(time.Now())
}

// ParseDate interpreta una fecha "YYYY-MM-DD".
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}
