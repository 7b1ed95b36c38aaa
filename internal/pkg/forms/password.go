package forms

import (
	"strings"
	"unicode"
)

const minPasswordLength = 8

// similarityThreshold is the share of matching characters from which a password counts as derived.
const similarityThreshold = 0.7

var commonPasswords = map[string]struct{}{}

func init() {
	for _, pw := range strings.Fields(`
		123456 123456789 12345678 password qwerty123 qwerty 111111 12345 1234567 123123
		1234567890 000000 abc123 password1 iloveyou 1q2w3e4r 1q2w3e4r5t qwertyuiop 654321
		666666 987654321 123321 55555 7777777 555555 121212 888888 112233 sunshine princess
		dragon monkey letmein football baseball welcome admin admin123 login master shadow
		superman batman trustno1 passw0rd starwars whatever freedom charlie donald michael
		jennifer jordan23 hunter2 secret access flower hello123 zaq12wsx qazwsx asdfghjkl
		password123 welcome1 changeme default computer internet mustang killer pepper ginger
		summer2024 winter2024 football1 baseball1 iloveyou1 letmein1 abcd1234 aa123456 q1w2e3r4
	`) {
		commonPasswords[pw] = struct{}{}
	}
}

// CheckPassword applies the password strength rules and returns the first violation, or "".
func CheckPassword(password string, attributes ...string) string {
	if len([]rune(password)) < minPasswordLength {
		return "This password is too short. It must contain at least 8 characters."
	}
	for _, attr := range attributes {
		if attr == "" {
			continue
		}
		if similar(password, attr) {
			return "The password is too similar to the username."
		}
	}
	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		return "This password is too common."
	}
	if isNumeric(password) {
		return "This password is entirely numeric."
	}
	return ""
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// similar compares the password with an attribute and with the parts of it, so that
// "jane.doe@example.com" also rejects "jane.doe1".
func similar(password, attr string) bool {
	pw := strings.ToLower(password)
	candidates := append([]string{attr}, strings.FieldsFunc(attr, func(r rune) bool {
		return r == '.' || r == '@' || r == '+' || r == '-' || r == '_'
	})...)
	for _, c := range candidates {
		c = strings.ToLower(c)
		if len(c) < 3 {
			continue
		}
		if ratio(pw, c) >= similarityThreshold {
			return true
		}
	}
	return false
}

// ratio is 2*M/T where M is the size of the longest common substring and T the total length.
func ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	longest := 0
	prev := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		cur := make([]int, len(rb)+1)
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > longest {
					longest = cur[j]
				}
			}
		}
		prev = cur
	}
	return 2 * float64(longest) / float64(total)
}
