package stats

import "time"

func (handler *Handler) SetToday(today func() time.Time) {
	handler.today = today
}
