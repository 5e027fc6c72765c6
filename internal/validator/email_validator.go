package validator

import "regexp"

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// 簡易メール形式をチェック
func IsEmailLike(s string) bool {
	if s == "" || len(s) > 255 {
		return false
	}
	return emailRe.MatchString(s)
}
