//go:build darwin

package crypto

func newPlatformKeyring() Keyring {
	return &systemKeyring{service: ServiceName}
}
