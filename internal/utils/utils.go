package utils

import (
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// TruncatePath truncates a path if it's too long
func TruncatePath(path string, maxLen int) string {
	if maxLen <= 3 || len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-(maxLen-3):]
}

// TruncateName cuts a name at maxLen, keeping the head
func TruncateName(name string, maxLen int) string {
	if maxLen <= 3 || len(name) <= maxLen {
		return name
	}
	return name[:maxLen-3] + "..."
}

// FormatFileSize formats file size using humanize
func FormatFileSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.Bytes(uint64(size))
}

// FormatAge renders a modification time relative to now
func FormatAge(t, now time.Time) string {
	if now.Sub(t) < time.Minute {
		return "just now"
	}
	if now.Sub(t) > 7*24*time.Hour {
		return t.Format("2006-01-02")
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Plural returns n followed by word, pluralized with an s
func Plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}

// HomeDir returns the current user's home directory
func HomeDir() string {
	if runtime.GOOS == "windows" {
		if p := os.Getenv("USERPROFILE"); p != "" {
			return p
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// RelativeDisplay replaces the home prefix with ~
func RelativeDisplay(absPath, home string) string {
	if home != "" && strings.HasPrefix(absPath, home) {
		return "~" + absPath[len(home):]
	}
	return absPath
}
