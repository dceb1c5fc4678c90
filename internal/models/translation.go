package models

type Translation struct {
	Locale string `json:"locale"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// Bundle is every message of one locale, keyed by message key.
type Bundle struct {
	Locale   string            `json:"locale"`
	Messages map[string]string `json:"messages"`
}
