//go:build windows

package proxy

import "strings"

func isPathKey(key string) bool { return strings.EqualFold(key, "PATH") }
