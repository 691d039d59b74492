package validation

import (
	"strings"
	"testing"
)

func TestValidateAndNormalizeServerURL(t *testing.T) {
	v := NewServerURLValidator()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain http", input: "http://127.0.0.1:8970", want: "http://127.0.0.1:8970"},
		{name: "trailing slash stripped", input: "http://localhost:8970/", want: "http://localhost:8970"},
		{name: "https remote", input: "https://murmur.example.net", want: "https://murmur.example.net"},
		{name: "surrounding whitespace", input: "  http://localhost:8970  ", want: "http://localhost:8970"},
		{name: "empty", input: "", wantErr: true},
		{name: "no scheme", input: "localhost:8970", wantErr: true},
		{name: "wrong scheme", input: "ftp://host", wantErr: true},
		{name: "no host", input: "http://", wantErr: true},
		{name: "angle brackets", input: "http://host/<script>", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateAndNormalize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ValidateAndNormalize(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAndNormalize(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidateAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateServerURLTooLong(t *testing.T) {
	v := NewServerURLValidator()
	long := "http://host/" + strings.Repeat("a", v.MaxLength)
	if _, err := v.ValidateAndNormalize(long); err == nil {
		t.Error("expected error for oversized URL")
	}
}

func TestLoopbackOnlyValidator(t *testing.T) {
	v := NewLoopbackOnlyValidator()

	allowed := []string{
		"http://localhost:8970",
		"http://127.0.0.1:8970",
		"http://[::1]:8970",
		"http://murmur.localhost",
	}
	for _, u := range allowed {
		if _, err := v.ValidateAndNormalize(u); err != nil {
			t.Errorf("ValidateAndNormalize(%q): %v", u, err)
		}
	}

	denied := []string{
		"http://192.168.1.5:8970",
		"https://murmur.example.net",
	}
	for _, u := range denied {
		if _, err := v.ValidateAndNormalize(u); err == nil {
			t.Errorf("ValidateAndNormalize(%q) accepted a remote host", u)
		}
	}
}
