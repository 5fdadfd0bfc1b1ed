package validate

import (
	"net/mail"
	"net/url"
	"strings"
)

// Email проверяет, что строка является адресом вида user@host.tld без имени и скобок
func Email(s string) bool {
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}

	at := strings.LastIndex(s, "@")
	domainPart := s[at+1:]
	dot := strings.LastIndex(domainPart, ".")
	return at > 0 && dot > 0 && dot < len(domainPart)-1
}

// URL проверяет, что строка является абсолютным адресом со схемой и хостом
func URL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
