package importer

import (
	"context"
	"fmt"
	"testing"

	"grc-integrator/internal/database/dbtest"

	"go.uber.org/zap"
)

// stubFetcher отдаёт заранее заданные ответы по URL.
type stubFetcher struct {
	bodies map[string]string
	errs   map[string]error
	calls  []string
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{bodies: map[string]string{}, errs: map[string]error{}}
}

func (f *stubFetcher) GetJSON(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, fmt.Errorf("GET %s: unexpected status 404", url)
	}
	return []byte(body), nil
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(dbtest.Open(t))
}

var nop = zap.NewNop()
