package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/murat/gimly/pkg/adapters/repository/memory"
	"github.com/murat/gimly/pkg/config"
	"github.com/murat/gimly/pkg/core/domain"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := memory.NewMemoryRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, code := range []string{"first111", "second22", "third333"} {
		link := &domain.Link{
			ShortID:    code,
			TargetURL:  "https://example.com/" + code,
			Title:      strings.ToUpper(code),
			ClickCount: int64(i * 10),
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		if err := src.Create(ctx, link); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := exportLinks(ctx, src, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := memory.NewMemoryRepository()
	if err := dst.Create(ctx, &domain.Link{ShortID: "second22", TargetURL: "https://already.example"}); err != nil {
		t.Fatal(err)
	}

	count, err := importLinks(ctx, dst, &buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if count != 2 {
		t.Errorf("imported %d links, want 2", count)
	}

	got, err := dst.GetByShortID(ctx, "third333")
	if err != nil {
		t.Fatal(err)
	}
	if got.ClickCount != 20 || got.Title != "THIRD333" || !got.CreatedAt.Equal(base.Add(2*time.Hour)) {
		t.Errorf("imported link = %+v", got)
	}

	kept, _ := dst.GetByShortID(ctx, "second22")
	if kept.TargetURL != "https://already.example" {
		t.Errorf("existing link overwritten: %+v", kept)
	}
}

func TestImportSortsAndSkipsInvalid(t *testing.T) {
	ctx := context.Background()
	input := `[
		{"short_id": "later111", "target_url": "https://example.com/b", "created_at": "2024-02-01T00:00:00Z"},
		{"short_id": "broken11", "target_url": "not-a-url", "created_at": "2024-01-15T00:00:00Z"},
		{"short_id": "early111", "target_url": "https://example.com/a", "created_at": "2024-01-01T00:00:00Z"}
	]`

	repo := memory.NewMemoryRepository()
	count, err := importLinks(ctx, repo, strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("imported %d, want 2", count)
	}

	links, _ := repo.List(ctx)
	if len(links) != 2 || links[0].ShortID != "early111" || links[1].ShortID != "later111" {
		t.Errorf("unexpected order: %+v", links)
	}
}

func TestCreateAndListCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		DatabaseURL:     "bolt://" + filepath.Join(dir, "links.db"),
		BaseURL:         "https://sho.rt",
		CodeLength:      8,
		MaxCodeAttempts: 5,
	}

	var out bytes.Buffer
	root := newRootCmd(cfg)
	root.SetOut(&out)
	root.SetArgs([]string{"create", "--url", "https://example.com/cli", "--title", "from cli"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out.String(), "https://sho.rt/u/") {
		t.Errorf("create output = %q", out.String())
	}

	out.Reset()
	root = newRootCmd(cfg)
	root.SetOut(&out)
	root.SetArgs([]string{"list"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "https://example.com/cli") || !strings.Contains(out.String(), "from cli") {
		t.Errorf("list output = %q", out.String())
	}

	out.Reset()
	root = newRootCmd(cfg)
	root.SetOut(&out)
	root.SetArgs([]string{"export"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("export: %v", err)
	}
	var exported []domain.Link
	if err := json.Unmarshal(out.Bytes(), &exported); err != nil {
		t.Fatalf("export output is not JSON: %v", err)
	}
	if len(exported) != 1 {
		t.Errorf("exported %d links, want 1", len(exported))
	}

	file := filepath.Join(dir, "export.json")
	if err := os.WriteFile(file, out.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg2 := *cfg
	cfg2.DatabaseURL = "bolt://" + filepath.Join(dir, "other.db")
	root = newRootCmd(&cfg2)
	root.SetArgs([]string{"import", "--file", file})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("import: %v", err)
	}
}

func TestSignToken(t *testing.T) {
	now := time.Now()
	if _, err := signToken("", "cli", time.Hour, now); err == nil {
		t.Error("expected error without a secret")
	}
	if _, err := signToken("s3cret", "cli", 0, now); err == nil {
		t.Error("expected error for zero ttl")
	}

	tokenString, err := signToken("s3cret", "ops", time.Hour, now)
	if err != nil {
		t.Fatal(err)
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("s3cret"), nil
	})
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Subject != "ops" {
		t.Errorf("subject = %q", claims.Subject)
	}
}
