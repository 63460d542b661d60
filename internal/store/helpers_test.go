package store

import (
	"testing"

	"go.uber.org/zap"

	"pcp-service/internal/settings"
)

type fakeKV struct {
	m map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{m: map[string]string{}}
}

func (f *fakeKV) Get(key string) (string, bool, error) {
	v, ok := f.m[key]
	return v, ok, nil
}

func (f *fakeKV) Set(key, value string) error {
	f.m[key] = value
	return nil
}

func (f *fakeKV) Delete(key string) error {
	delete(f.m, key)
	return nil
}

// newTestSettings returns a settings store with the given keys pre-saved
func newTestSettings(t *testing.T, values map[string]string) *settings.Store {
	t.Helper()
	kv := newFakeKV()
	for key, value := range values {
		kv.m[key] = value
	}
	return settings.NewStore(kv)
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
