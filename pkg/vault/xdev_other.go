//go:build !windows

package vault

func isPlatformCrossDevice(error) bool {
	return false
}
