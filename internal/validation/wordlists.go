package validation

// commonPasswords is the curated reject list. Checked case-insensitively
// against the whole password.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password1!":  {},
	"password123": {},
	"passw0rd":    {},
	"123456":      {},
	"1234567":     {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwerty":      {},
	"qwerty123":   {},
	"qwertyuiop":  {},
	"iloveyou":    {},
	"welcome":     {},
	"welcome1":    {},
	"admin":       {},
	"admin123":    {},
	"letmein":     {},
	"monkey":      {},
	"dragon":      {},
	"sunshine":    {},
	"princess":    {},
	"football":    {},
	"baseball":    {},
	"master":      {},
	"superman":    {},
	"batman":      {},
	"trustno1":    {},
	"abc123":      {},
	"111111":      {},
	"000000":      {},
	"696969":      {},
	"gpslab":      {},
	"gpslab123":   {},
}

// keyboardPatterns are contiguous key runs rejected as substrings,
// case-insensitively.
var keyboardPatterns = []string{
	"qwerty",
	"qwertz",
	"azerty",
	"asdfgh",
	"zxcvbn",
	"qazwsx",
	"1q2w3e",
	"123456789",
	"987654321",
	"abcdefg",
	"!@#$%^",
}
