package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Placeholder texts for the listing.
const (
	LoadingText = "Cargando reservas..."
	EmptyText   = "No hay reservas todavía. ¡Sé el primero en reservar!"
)

var weekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var months = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDate renders a "2006-01-02" date in long Spanish form,
// e.g. "domingo, 1 de junio de 2025". Unparseable input is returned unchanged.
func FormatDate(date string) string {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s, %d de %s de %d", weekdays[d.Weekday()], d.Day(), months[d.Month()-1], d.Year())
}

// FormatTime renders a 24-hour "15:04" time on the 12-hour clock,
// e.g. "13:05" → "1:05 PM" and "00:15" → "12:15 AM".
// Unparseable input is returned unchanged.
func FormatTime(clock string) string {
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return clock
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return clock
	}

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%s %s", h12, parts[1], suffix)
}

// GuestsLabel renders a party size, e.g. "1 persona" or "4 personas".
func GuestsLabel(n int) string {
	if n == 1 {
		return "1 persona"
	}
	return fmt.Sprintf("%d personas", n)
}

// CountLabel renders the number of bookings, e.g. "3 reservas registradas".
func CountLabel(n int) string {
	if n == 1 {
		return "1 reserva registrada"
	}
	return fmt.Sprintf("%d reservas registradas", n)
}
