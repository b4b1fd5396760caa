package fsm

import "strings"

// IsPhoneValid проверяет номер телефона: после удаления всех символов кроме
// цифр и "+" номер должен начинаться с "+" и содержать от 10 до 15 цифр.
func IsPhoneValid(phone string) bool {
	var cleaned strings.Builder
	for _, r := range phone {
		if r == '+' || (r >= '0' && r <= '9') {
			cleaned.WriteRune(r)
		}
	}

	s := cleaned.String()
	if !strings.HasPrefix(s, "+") {
		return false
	}

	digits := s[1:]
	if strings.ContainsRune(digits, '+') {
		return false
	}

	return len(digits) >= 10 && len(digits) <= 15
}
