package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"lowercase unchanged", "test1@example.com", "test1@example.com"},
		{"domain lowercased", "Test2@EXAMPLE.com", "Test2@example.com"},
		{"local part preserved", "TEST3@EXAMPLE.COM", "TEST3@example.com"},
		{"mixed case domain", "test4@Example.Com", "test4@example.com"},
		{"surrounding whitespace", "  test5@example.com  ", "test5@example.com"},
		{"no at sign", "not-an-email", "not-an-email"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NormalizeEmail(tt.email))
		})
	}
}
