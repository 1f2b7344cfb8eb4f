package rulewatch_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/hotswap/internal/core/ports/mocks"
	"go.trai.ch/hotswap/internal/engine/rulewatch"
	"go.trai.ch/hotswap/internal/engine/simulation"
	"go.uber.org/mock/gomock"
)

const (
	testRoot     = "/mods/ra"
	testInterval = 10 * time.Millisecond
)

// fakeFS backs every logical id with testRoot/<id> unless it is virtual.
type fakeFS struct {
	mu       sync.Mutex
	virtual  map[string]bool
	missing  map[string]bool
	foldCase bool
}

func newFakeFS() *fakeFS {
	return &fakeFS{virtual: map[string]bool{}, missing: map[string]bool{}}
}

func (f *fakeFS) Open(id string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.virtual[id] {
		return "", false
	}
	if f.foldCase {
		id = strings.ToLower(id)
	}
	return filepath.Join(testRoot, id), true
}

func (f *fakeFS) Exists(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.missing[id]
}

func (f *fakeFS) ReadFile(string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeFS) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[id] = true
}

// fakeNotifier records the subscription and lets tests emit OS events.
type fakeNotifier struct {
	mu         sync.Mutex
	handler    ports.WatchHandler
	ctx        context.Context
	root       string
	filters    []string
	subscribes int
	closes     int
	err        error
}

func (n *fakeNotifier) Watch(
	ctx context.Context,
	root string,
	filters []string,
	handler ports.WatchHandler,
) (ports.Subscription, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return nil, n.err
	}
	n.subscribes++
	n.ctx = ctx
	n.root = root
	n.filters = filters
	n.handler = handler
	return &fakeSubscription{n: n}, nil
}

func (n *fakeNotifier) emit(path string) {
	n.mu.Lock()
	handler := n.handler
	n.mu.Unlock()
	if handler != nil {
		handler(ports.WatchEvent{Path: path})
	}
}

// subscriptionContext returns the context of the latest subscription.
func (n *fakeNotifier) subscriptionContext() context.Context {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ctx
}

func (n *fakeNotifier) counts() (subscribes, closes int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.subscribes, n.closes
}

type fakeSubscription struct {
	n *fakeNotifier
}

func (s *fakeSubscription) Close() error {
	s.n.mu.Lock()
	defer s.n.mu.Unlock()
	s.n.handler = nil
	s.n.closes++
	return nil
}

type fixture struct {
	manifest domain.Manifest
	fs       *fakeFS
	notifier *fakeNotifier
	loader   *mocks.MockRulesetLoader
	logger   *mocks.MockLogger
	loop     *simulation.Loop
	watcher  *rulewatch.Watcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		manifest: domain.Manifest{
			Root:      testRoot,
			Rules:     []string{"rules.yaml"},
			Weapons:   []string{"weapons.yaml"},
			Sequences: []string{"sequences.yaml"},
		},
		fs:       newFakeFS(),
		notifier: &fakeNotifier{},
		loader:   mocks.NewMockRulesetLoader(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.loop = simulation.NewLoop(time.Second, f.logger)
	f.watcher = f.build()

	return f
}

func (f *fixture) build() *rulewatch.Watcher {
	return rulewatch.New(f.manifest, rulewatch.Deps{
		FileSystem: f.fs,
		Loader:     f.loader,
		Scheduler:  f.loop,
		Notifier:   f.notifier,
		Logger:     f.logger,
	}, rulewatch.Options{Interval: testInterval})
}

func (f *fixture) path(id string) string {
	return filepath.Join(testRoot, id)
}

// settle advances the fake clock past one timer interval.
func settle() {
	time.Sleep(testInterval + time.Millisecond)
}
