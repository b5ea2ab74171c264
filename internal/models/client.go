package models

import (
	"strings"
	"time"
)

const (
	ClientStatusNew      = "novo"
	ClientStatusActive   = "ativo"
	ClientStatusInactive = "inativo"
)

type Client struct {
	ID        string
	Name      string
	Company   *string
	Email     string
	Phone     *string
	Status    string
	Notes     *string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParseTags splits a comma separated tag string, dropping blanks.
func ParseTags(raw string) []string {
	tags := make([]string, 0)
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
