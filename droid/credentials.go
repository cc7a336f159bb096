package droid

import "fmt"

// Access point name and passphrase prefixes, e.g. R2-BK01 / droidBK01.
const (
	SSIDPrefix     = "R2-BK"
	PasswordPrefix = "droidBK"
)

// Credentials derives the access point SSID and passphrase for a droid number.
// Numbers below 10 get one leading zero.
func Credentials(droidNumber int) (ssid, password string) {
	suffix := zeroPad2(droidNumber)
	return SSIDPrefix + suffix, PasswordPrefix + suffix
}

func zeroPad2(n int) string {
	return fmt.Sprintf("%02d", n)
}
