package rename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/1F47E/go-scrollreel/pkg/frames"
)

// writeFiles creates files whose content is their own name.
func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// listDir maps every file name in dir to its content.
func listDir(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	res := make(map[string]string, len(entries))
	for _, e := range entries {
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		res[e.Name()] = string(b)
	}
	return res
}

func newTestRenamer(dir string) *Renamer {
	r := New(dir)
	r.now = func() time.Time { return time.Unix(0, 42) }
	return r
}

func TestPlan(t *testing.T) {
	dir := writeFiles(t, "b10.png", "b2.jpg", "A1.webp", "notes.txt")

	testCases := []struct {
		name    string
		keepExt bool
		want    Plan
	}{
		{
			name: "target extension",
			want: Plan{
				{From: "A1.webp", Temp: "temp_42_0.webp", To: "frame_0001.webp"},
				{From: "b2.jpg", Temp: "temp_42_1.jpg", To: "frame_0002.webp"},
				{From: "b10.png", Temp: "temp_42_2.png", To: "frame_0003.webp"},
			},
		},
		{
			name:    "keep extension",
			keepExt: true,
			want: Plan{
				{From: "A1.webp", Temp: "temp_42_0.webp", To: "frame_0001.webp"},
				{From: "b2.jpg", Temp: "temp_42_1.jpg", To: "frame_0002.jpg"},
				{From: "b10.png", Temp: "temp_42_2.png", To: "frame_0003.png"},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRenamer(dir)
			r.KeepExt = tc.keepExt
			plan, err := r.Plan()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, plan); diff != "" {
				t.Errorf("unexpected plan (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlanOptions(t *testing.T) {
	dir := writeFiles(t, "a.png", "b.png")
	r := newTestRenamer(dir)
	r.Prefix = "shot-"
	r.Start = 9
	r.Pad = 3
	r.Ext = "jpg"
	plan, err := r.Plan()
	if err != nil {
		t.Fatal(err)
	}
	first, last := plan.Range()
	if first != "shot-009.jpg" || last != "shot-010.jpg" {
		t.Errorf("range = %s..%s, want shot-009.jpg..shot-010.jpg", first, last)
	}
}

func TestRun(t *testing.T) {
	dir := writeFiles(t, "img10.png", "img2.png", "img1.png")
	if _, err := newTestRenamer(dir).Run(); err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"frame_0001.webp": "img1.png",
		"frame_0002.webp": "img2.png",
		"frame_0003.webp": "img10.png",
	}
	if diff := cmp.Diff(want, listDir(t, dir)); diff != "" {
		t.Errorf("unexpected folder (-want +got):\n%s", diff)
	}
}

func TestRunOverlappingNames(t *testing.T) {
	dir := writeFiles(t, "frame_0001.webp", "frame_0002.webp")
	r := newTestRenamer(dir)
	r.Start = 2
	if _, err := r.Run(); err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"frame_0002.webp": "frame_0001.webp",
		"frame_0003.webp": "frame_0002.webp",
	}
	if diff := cmp.Diff(want, listDir(t, dir)); diff != "" {
		t.Errorf("unexpected folder (-want +got):\n%s", diff)
	}
}

func TestRunDryRun(t *testing.T) {
	dir := writeFiles(t, "b.png", "a.png")
	before := listDir(t, dir)
	r := newTestRenamer(dir)
	r.DryRun = true
	plan, err := r.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(plan) != 2 {
		t.Errorf("plan has %d steps, want 2", len(plan))
	}
	if diff := cmp.Diff(before, listDir(t, dir)); diff != "" {
		t.Errorf("dry run changed the folder (-want +got):\n%s", diff)
	}
}

func TestRunEmptyFolder(t *testing.T) {
	dir := writeFiles(t, "readme.md")
	plan, err := newTestRenamer(dir).Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(plan) != 0 {
		t.Errorf("plan = %v, want empty", plan)
	}
}

func TestRunBadFolder(t *testing.T) {
	dir := writeFiles(t, "a.png")
	testCases := []struct {
		name string
		dir  string
		want error
	}{
		{"missing", filepath.Join(dir, "nope"), os.ErrNotExist},
		{"file", filepath.Join(dir, "a.png"), frames.ErrNotDir},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestRenamer(tc.dir).Run()
			if !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestApplyTargetExists(t *testing.T) {
	// frame_0001.txt is not an image so it is not part of the plan
	dir := writeFiles(t, "a.png", "frame_0001.txt")
	before := listDir(t, dir)
	r := newTestRenamer(dir)
	r.Ext = ".txt"
	_, err := r.Run()
	if !errors.Is(err, ErrExists) {
		t.Fatalf("error = %v, want ErrExists", err)
	}
	if diff := cmp.Diff(before, listDir(t, dir)); diff != "" {
		t.Errorf("failed run was not rolled back (-want +got):\n%s", diff)
	}
}

func TestApplyRollback(t *testing.T) {
	names := []string{"c.png", "a.jpg", "b.webp"}
	// two renames per file, fail at each of them in turn
	for fail := 1; fail <= 2*len(names); fail++ {
		t.Run(fmt.Sprintf("fail at rename %d", fail), func(t *testing.T) {
			dir := writeFiles(t, names...)
			before := listDir(t, dir)

			r := newTestRenamer(dir)
			calls := 0
			r.rename = func(from, to string) error {
				calls++
				if calls == fail {
					return errors.New("disk on fire")
				}
				return os.Rename(from, to)
			}
			if _, err := r.Run(); err == nil {
				t.Fatal("expected an error")
			}
			if diff := cmp.Diff(before, listDir(t, dir)); diff != "" {
				t.Errorf("folder not restored (-want +got):\n%s", diff)
			}
		})
	}
}
