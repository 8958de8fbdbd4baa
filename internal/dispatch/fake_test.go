package dispatch

import "context"

// call records one Manager invocation.
type call struct {
	Op     string
	ID     string
	AppDir string
	Clean  bool
}

// fakeManager records calls and returns scripted results.
type fakeManager struct {
	calls []call

	buildErr    error
	failOn      map[string]error // keyed by "op:id"
	unchangedOn map[string]bool  // keyed by "op:id"
}

func newFake() *fakeManager {
	return &fakeManager{
		failOn:      map[string]error{},
		unchangedOn: map[string]bool{},
	}
}

func (f *fakeManager) record(op, id, appDir string) error {
	f.calls = append(f.calls, call{Op: op, ID: id, AppDir: appDir})
	return f.failOn[op+":"+id]
}

func (f *fakeManager) changed(op, id string) bool {
	return !f.unchangedOn[op+":"+id]
}

func (f *fakeManager) Install(_ context.Context, id, appDir string) error {
	return f.record("install", id, appDir)
}

func (f *fakeManager) Uninstall(_ context.Context, id, appDir string) (bool, error) {
	if err := f.record("uninstall", id, appDir); err != nil {
		return false, err
	}
	return f.changed("uninstall", id), nil
}

func (f *fakeManager) Link(_ context.Context, id, appDir string) error {
	return f.record("link", id, appDir)
}

func (f *fakeManager) Unlink(_ context.Context, id, appDir string) (bool, error) {
	if err := f.record("unlink", id, appDir); err != nil {
		return false, err
	}
	return f.changed("unlink", id), nil
}

func (f *fakeManager) Enable(_ context.Context, id, appDir string) error {
	return f.record("enable", id, appDir)
}

func (f *fakeManager) Disable(_ context.Context, id, appDir string) error {
	return f.record("disable", id, appDir)
}

func (f *fakeManager) ListInstalled(_ context.Context, appDir string) error {
	return f.record("list", "", appDir)
}

func (f *fakeManager) Build(_ context.Context, appDir string, clean bool) error {
	f.calls = append(f.calls, call{Op: "build", AppDir: appDir, Clean: clean})
	return f.buildErr
}

func (f *fakeManager) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}
