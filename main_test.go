package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildDemoSceneHasGeometryAndLight(t *testing.T) {
	sc := buildDemoScene()
	if sc == nil {
		t.Fatal("buildDemoScene returned nil")
	}
	if len(sc.Lights) == 0 {
		t.Error("expected the demo scene to include at least one light")
	}
}

func TestLoadSceneEmptyPathReturnsDemoScene(t *testing.T) {
	sc, err := loadScene("")
	if err != nil {
		t.Fatalf("loadScene(\"\") returned error: %v", err)
	}
	if sc == nil {
		t.Fatal("loadScene(\"\") returned nil scene")
	}
}

func TestLoadSceneMissingDescriptionReturnsError(t *testing.T) {
	if _, err := loadScene("testdata/does-not-exist.json"); err == nil {
		t.Error("expected an error loading a missing scene description")
	}
}

func TestLoadSceneMissingGLTFReturnsError(t *testing.T) {
	if _, err := loadScene("testdata/does-not-exist.gltf"); err == nil {
		t.Error("expected an error loading a missing glTF asset")
	}
}

func TestCreateOutputDirCreatesNestedDirectories(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "a", "b", "render.png")

	if err := createOutputDir(target); err != nil {
		t.Fatalf("createOutputDir returned error: %v", err)
	}

	info, err := os.Stat(filepath.Dir(target))
	if err != nil {
		t.Fatalf("expected output directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("%s is not a directory", filepath.Dir(target))
	}
}

func TestCreateOutputDirAcceptsBarePath(t *testing.T) {
	if err := createOutputDir("render.png"); err != nil {
		t.Fatalf("createOutputDir with no directory component returned error: %v", err)
	}
}
