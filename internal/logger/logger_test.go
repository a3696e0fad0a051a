package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"not-a-level", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			l := New(tc.level)
			if got := l.GetLevel(); got != tc.want {
				t.Errorf("New(%q) level = %v, want %v", tc.level, got, tc.want)
			}
		})
	}
}
