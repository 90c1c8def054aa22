package entity

import "time"

const SettingDailyReminderEnabled = "daily_reminder_enabled"

type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Enabled reports whether a boolean setting is on. A missing setting counts as on.
func (s *Setting) Enabled() bool {
	if s == nil {
		return true
	}
	return s.Value != "false"
}
