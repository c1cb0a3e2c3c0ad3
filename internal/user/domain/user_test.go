package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUsernameCooldownDays(t *testing.T) {
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		changedAt *time.Time
		now       time.Time
		want      int
	}{
		{"never changed, just registered", nil, created, 30},
		{"never changed, cooldown over", nil, created.Add(31 * 24 * time.Hour), 0},
		{"exactly at boundary", nil, created.Add(UsernameChangeCooldown), 0},
		{"partial day rounds up", ptr(created.Add(24 * time.Hour)), created.Add(2*24*time.Hour + time.Hour), 29},
		{"one hour left", ptr(created), created.Add(UsernameChangeCooldown - time.Hour), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{CreatedAt: created, UsernameChangedAt: tt.changedAt}
			assert.Equal(t, tt.want, u.UsernameCooldownDays(tt.now))
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }
