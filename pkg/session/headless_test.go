package session

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// TestHeadlessPackagesAvoidGraphics 会话及其依赖、无界面宿主不能直接导入图形库
// 否则在没有 X11 / OpenGL 头文件的机器上无法编译
func TestHeadlessPackagesAvoidGraphics(t *testing.T) {
	dirs := []string{
		".",
		"../components",
		"../config",
		"../debugserver",
		"../ecs",
		"../embedded",
		"../entities",
		"../game",
		"../systems",
		"../types",
		"../../internal/rpn",
		"../../cmd/arena-term",
		"../../cmd/check_content",
		"../../cmd/verify_waves",
	}
	fset := token.NewFileSet()
	for _, dir := range dirs {
		files, err := filepath.Glob(filepath.Join(dir, "*.go"))
		if err != nil {
			t.Fatalf("Glob(%s) failed: %v", dir, err)
		}
		if len(files) == 0 {
			t.Errorf("no Go files in %s", dir)
		}
		for _, file := range files {
			f, err := parser.ParseFile(fset, file, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("ParseFile(%s) failed: %v", file, err)
			}
			for _, imp := range f.Imports {
				path, _ := strconv.Unquote(imp.Path.Value)
				if strings.HasPrefix(path, "github.com/hajimehoshi/ebiten") {
					t.Errorf("%s imports %s", file, path)
				}
			}
		}
	}
}
