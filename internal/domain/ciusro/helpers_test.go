package ciusro_test

import (
	"fmt"
	"strings"
)

func sprintf(format string, a ...any) string { return fmt.Sprintf(format, a...) }

func repeat(s string, n int) string { return strings.Repeat(s, n) }
