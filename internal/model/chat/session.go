package chat

import "time"

// Session captures a transient anonymous conversation with one widget.
type Session struct {
	ID        string    `json:"id"`
	WidgetID  string    `json:"widgetId"`
	CreatedAt time.Time `json:"createdAt"`
}
