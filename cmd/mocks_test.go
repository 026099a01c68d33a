package cmd

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zhengshuai-xiao/ufhash/pkg/store"
	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

// MockStore is a mock implementation of the store.Store interface for testing.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, entries []ufh.NamedDigest, appending bool) error {
	args := m.Called(ctx, entries, appending)
	return args.Error(0)
}

func (m *MockStore) Load(ctx context.Context) ([]ufh.NamedDigest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ufh.NamedDigest), args.Error(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

type openCall struct {
	url  string
	opts store.Options
}

// useStores makes Open return the mock registered for each URL and records
// every call.
func useStores(stores map[string]*MockStore) *[]openCall {
	calls := &[]openCall{}
	openStore = func(_ context.Context, rawURL string, opts store.Options) (store.Store, error) {
		*calls = append(*calls, openCall{url: rawURL, opts: opts})
		s, ok := stores[rawURL]
		if !ok {
			return nil, store.ErrUnsupportedScheme
		}
		return s, nil
	}
	return calls
}
