package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("ZTTL_TEST_NAME", "vault-a")
	p := writeConfig(t, "name: ${ZTTL_TEST_NAME}\ncount: 3\n")

	var s sample
	if err := Load(p, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "vault-a" || s.Count != 3 {
		t.Errorf("loaded = %+v", s)
	}
}

func TestLoad_RunsValidator(t *testing.T) {
	p := writeConfig(t, "count: -1\n")
	var s sample
	err := Load(p, &s)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("err = %v, want validation failure", err)
	}
}

func TestLoadIfExists_Missing(t *testing.T) {
	s := sample{Name: "default"}
	ok, err := LoadIfExists(filepath.Join(t.TempDir(), "nope.yaml"), &s)
	if err != nil || ok {
		t.Fatalf("LoadIfExists = %v, %v", ok, err)
	}
	if s.Name != "default" {
		t.Errorf("target modified: %+v", s)
	}
}

func TestLoadIfExists_Present(t *testing.T) {
	p := writeConfig(t, "count: 7\n")
	s := sample{Name: "default"}
	ok, err := LoadIfExists(p, &s)
	if err != nil || !ok {
		t.Fatalf("LoadIfExists = %v, %v", ok, err)
	}
	if s.Count != 7 || s.Name != "default" {
		t.Errorf("loaded = %+v", s)
	}
}

func TestLoadIfExists_EmptyName(t *testing.T) {
	var s sample
	if ok, err := LoadIfExists("", &s); ok || err != nil {
		t.Errorf("LoadIfExists(\"\") = %v, %v", ok, err)
	}
}
