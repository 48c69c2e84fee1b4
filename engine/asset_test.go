package engine

import (
	"testing"
	"testing/fstest"
)

func TestFSSourceList(t *testing.T) {
	src := &FSSource{FS: fstest.MapFS{
		"tl/intro.tl.yaml":      {Data: []byte("moments: {}")},
		"tl/sub/area.tl.yaml":   {Data: []byte("moments: {}")},
		"tl/notes.txt":          {Data: []byte("x")},
		"other/ignored.tl.yaml": {Data: []byte("moments: {}")},
	}}

	got, err := src.List("tl", ".tl.yaml")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 || got[0] != "tl/intro.tl.yaml" || got[1] != "tl/sub/area.tl.yaml" {
		t.Errorf("Unexpected listing %v", got)
	}

	data, err := src.ReadFile("./tl/intro.tl.yaml")
	if err != nil || string(data) != "moments: {}" {
		t.Errorf("ReadFile returned %q, %v", data, err)
	}
}
