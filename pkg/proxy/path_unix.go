//go:build !windows

package proxy

func isPathKey(key string) bool { return key == "PATH" }
