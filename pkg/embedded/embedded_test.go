package embedded

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/levels.yaml":  {Data: []byte("levels: []\n")},
		"data/enemies.yaml": {Data: []byte("enemies: []\n")},
		"data/extra/x.yaml": {Data: []byte("x: 1\n")},
	}
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	Reset()
	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(testFS())
	defer Reset()
	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}
}

// TestNotInitialized 测试未初始化时访问
func TestNotInitialized(t *testing.T) {
	Reset()

	if _, err := ReadFile("data/levels.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ReadFile before Init: expected ErrNotInitialized, got %v", err)
	}
	if _, err := Open("data/levels.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Open before Init: expected ErrNotInitialized, got %v", err)
	}
	if Exists("data/levels.yaml") {
		t.Error("Exists before Init should be false")
	}
}

// TestReadFile 测试读取与路径标准化
func TestReadFile(t *testing.T) {
	Init(testFS())
	defer Reset()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"plain", "data/levels.yaml", "levels: []\n", false},
		{"dot prefix", "./data/enemies.yaml", "enemies: []\n", false},
		{"nested", "data/extra/x.yaml", "x: 1\n", false},
		{"missing", "data/missing.yaml", "", true},
		{"wrong prefix", "assets/levels.yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	if _, err := ReadFile("data/missing.yaml"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist for missing file, got %v", err)
	}
}

// TestGlobAndReadDir 测试目录查询
func TestGlobAndReadDir(t *testing.T) {
	Init(testFS())
	defer Reset()

	matches, err := Glob("data/*.yaml")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Expected 2 top-level yaml files, got %v", matches)
	}

	entries, err := ReadDir("data")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("Expected 3 entries in data/, got %d", len(entries))
	}

	if !Exists("data/extra/x.yaml") || Exists("data/nope.yaml") {
		t.Error("Exists returned unexpected result")
	}
}
