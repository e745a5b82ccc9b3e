// Package timeslot генерирует дискретные временные слоты внутри окна
// доступности курьера или точки самовывоза.
package timeslot

import (
	"errors"
	"fmt"
	"time"
)

const layout = "15:04"

// ErrInvalidWindow возвращается, когда конец окна не позже начала
var ErrInvalidWindow = errors.New("time window end must be after start")

// Generate возвращает слоты формата HH:MM с фиксированным шагом строго
// внутри окна [from, to). Возвращает ошибку при некорректном формате
// времени, неположительном шаге или окне нулевой длины.
func Generate(from, to string, step time.Duration) ([]string, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %s", step)
	}

	start, err := time.Parse(layout, from)
	if err != nil {
		return nil, fmt.Errorf("parse window start %q: %w", from, err)
	}

	end, err := time.Parse(layout, to)
	if err != nil {
		return nil, fmt.Errorf("parse window end %q: %w", to, err)
	}

	if !end.After(start) {
		return nil, ErrInvalidWindow
	}

	var slots []string
	for t := start; t.Before(end); t = t.Add(step) {
		slots = append(slots, t.Format(layout))
	}

	return slots, nil
}

// Contains сообщает, попадает ли значение value на сетку слотов окна
func Contains(from, to string, step time.Duration, value string) bool {
	slots, err := Generate(from, to, step)
	if err != nil {
		return false
	}
	for _, s := range slots {
		if s == value {
			return true
		}
	}
	return false
}
