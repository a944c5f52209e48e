package repository

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrNotFound = errors.New("not found")

// placeholders renders "$from, $from+1, ..." for n arguments. IN lists are used instead of
// ANY($1) so the same statement runs on both drivers.
func placeholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(from+i)
	}
	return strings.Join(parts, ", ")
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
