package shortcode

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNew_InvalidLength(t *testing.T) {
	for _, n := range []int{-1, 0, 3, 33} {
		if _, err := New(n); !errors.Is(err, ErrInvalidLength) {
			t.Errorf("New(%d) error = %v, want ErrInvalidLength", n, err)
		}
	}
}

func TestGenerate_LengthAndAlphabet(t *testing.T) {
	for _, n := range []int{MinLength, 6, DefaultLength, MaxLength} {
		g, err := New(n)
		if err != nil {
			t.Fatalf("New(%d): %v", n, err)
		}
		if g.Length() != n {
			t.Errorf("Length() = %d, want %d", g.Length(), n)
		}
		for i := 0; i < 200; i++ {
			code, err := g.Generate()
			if err != nil {
				t.Fatalf("generate error: %v", err)
			}
			if len(code) != n {
				t.Fatalf("code %q has length %d, want %d", code, len(code), n)
			}
			for _, c := range code {
				if !strings.ContainsRune(Alphabet, c) {
					t.Fatalf("code %q contains %q outside the alphabet", code, c)
				}
			}
			if !Valid(code) {
				t.Fatalf("Valid(%q) = false for a generated code", code)
			}
		}
	}
}

func TestGenerate_ConcurrentUnique(t *testing.T) {
	g, _ := New(DefaultLength)
	var mu sync.Mutex
	seen := make(map[string]bool)
	goroutines := 8
	perGoroutine := 2_000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			local := make([]string, 0, perGoroutine)
			for j := 0; j < perGoroutine; j++ {
				code, err := g.Generate()
				if err != nil {
					t.Errorf("generate error: %v", err)
					return
				}
				local = append(local, code)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, code := range local {
				if seen[code] {
					t.Errorf("duplicate code: %s", code)
				}
				seen[code] = true
			}
		}()
	}
	wg.Wait()
}

func TestValid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"Ab3dE6fG", true},
		{"abcd", true},
		{"abc", false},
		{"", false},
		{"abc-d_f", true},
		{"abc def", false},
		{"a/b/c", false},
		{"ünïcode", false},
		{strings.Repeat("a", MaxLength+1), false},
	}
	for _, tt := range tests {
		if got := Valid(tt.code); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
