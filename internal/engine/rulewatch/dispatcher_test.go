package rulewatch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/hotswap/internal/core/ports/mocks"
	"go.trai.ch/hotswap/internal/engine/rulewatch"
	"go.uber.org/mock/gomock"
)

func newDispatcher(f *fixture) *rulewatch.Dispatcher {
	index := rulewatch.NewPathIndex(f.manifest, f.fs)
	return rulewatch.NewDispatcher(
		f.manifest, index, f.fs, f.loader, rulewatch.NoopTracer, rulewatch.NoopMetrics, f.logger,
	)
}

func TestDispatcher_Classify(t *testing.T) {
	tests := []struct {
		name    string
		changed []string
		missing []string
		want    domain.ReloadPlan
	}{
		{
			name:    "empty batch",
			changed: nil,
			want:    domain.ReloadPlan{Kind: domain.ReloadNone},
		},
		{
			name:    "rules only",
			changed: []string{"rules.yaml"},
			want:    domain.ReloadPlan{Kind: domain.ReloadRules, Files: []string{"rules.yaml"}},
		},
		{
			name:    "rules win over everything",
			changed: []string{"sequences.yaml", "weapons.yaml", "rules.yaml"},
			want:    domain.ReloadPlan{Kind: domain.ReloadRules, Files: []string{"rules.yaml"}},
		},
		{
			name:    "weapons win over sequences",
			changed: []string{"sequences.yaml", "weapons.yaml"},
			want:    domain.ReloadPlan{Kind: domain.ReloadWeapons, Files: []string{"weapons.yaml"}},
		},
		{
			name:    "sequences only",
			changed: []string{"sequences.yaml"},
			want:    domain.ReloadPlan{Kind: domain.ReloadSequences, Files: []string{"sequences.yaml"}},
		},
		{
			name:    "deleted rules fall through to weapons",
			changed: []string{"rules.yaml", "weapons.yaml"},
			missing: []string{"rules.yaml"},
			want:    domain.ReloadPlan{Kind: domain.ReloadWeapons, Files: []string{"weapons.yaml"}},
		},
		{
			name:    "everything deleted",
			changed: []string{"rules.yaml"},
			missing: []string{"rules.yaml"},
			want:    domain.ReloadPlan{Kind: domain.ReloadNone},
		},
		{
			name:    "unknown path",
			changed: []string{"maps/rules.yaml"},
			want:    domain.ReloadPlan{Kind: domain.ReloadNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			for _, id := range tt.missing {
				f.fs.remove(id)
			}
			d := newDispatcher(f)

			paths := make([]string, 0, len(tt.changed))
			for _, id := range tt.changed {
				paths = append(paths, f.path(id))
			}

			assert.Equal(t, tt.want, d.Classify(paths))
		})
	}
}

func TestDispatcher_ClassifyKeepsDeclarationOrder(t *testing.T) {
	f := newFixture(t)
	f.manifest.Rules = []string{"infantry.yaml", "vehicles.yaml", "aircraft.yaml"}
	d := newDispatcher(f)

	plan := d.Classify([]string{f.path("aircraft.yaml"), f.path("infantry.yaml")})

	assert.Equal(t, domain.ReloadRules, plan.Kind)
	assert.Equal(t, []string{"infantry.yaml", "aircraft.yaml"}, plan.Files)
}

func TestDispatcher_ClassifyOnlyFirstSequence(t *testing.T) {
	f := newFixture(t)
	f.manifest.Sequences = []string{"infantry-seq.yaml", "vehicle-seq.yaml"}
	d := newDispatcher(f)

	plan := d.Classify([]string{f.path("vehicle-seq.yaml"), f.path("infantry-seq.yaml")})

	assert.Equal(t, domain.ReloadPlan{Kind: domain.ReloadSequences, Files: []string{"infantry-seq.yaml"}}, plan)
}

func TestDispatcher_ClassifyIgnoresCase(t *testing.T) {
	f := newFixture(t)
	f.fs.foldCase = true
	f.manifest.Weapons = []string{"Weapons.YAML"}
	d := newDispatcher(f)

	plan := d.Classify([]string{f.path("weapons.yaml")})

	assert.Equal(t, domain.ReloadPlan{Kind: domain.ReloadWeapons, Files: []string{"Weapons.YAML"}}, plan)
}

func TestDispatcher_Batch(t *testing.T) {
	f := newFixture(t)
	d := newDispatcher(f)

	batch := d.Batch([]string{f.path("weapons.yaml"), "/tmp/other.yaml", f.path("rules.yaml")})

	assert.Equal(t, []string{"weapons.yaml", "rules.yaml"}, batch.LogicalIDs)
}

func TestDispatcher_Dispatch(t *testing.T) {
	t.Run("rules", func(t *testing.T) {
		f := newFixture(t)
		d := newDispatcher(f)
		f.loader.EXPECT().ReloadRules(gomock.Any(), []string{"rules.yaml"}).Return(nil)

		require.NoError(t, d.Dispatch(t.Context(), []string{f.path("rules.yaml")}))
	})

	t.Run("weapons pass the weapon files", func(t *testing.T) {
		f := newFixture(t)
		d := newDispatcher(f)
		f.loader.EXPECT().ReloadWeapons(gomock.Any(), []string{"weapons.yaml"}).Return(nil)

		require.NoError(t, d.Dispatch(t.Context(), []string{f.path("weapons.yaml")}))
	})

	t.Run("sequences", func(t *testing.T) {
		f := newFixture(t)
		d := newDispatcher(f)
		f.loader.EXPECT().ReloadSequences(gomock.Any(), "sequences.yaml").Return(nil)

		require.NoError(t, d.Dispatch(t.Context(), []string{f.path("sequences.yaml")}))
	})

	t.Run("nothing to reload", func(t *testing.T) {
		f := newFixture(t)
		d := newDispatcher(f)

		require.NoError(t, d.Dispatch(t.Context(), []string{"/elsewhere/rules.yaml"}))
	})

	t.Run("loader failure", func(t *testing.T) {
		f := newFixture(t)
		d := newDispatcher(f)
		errBoom := errors.New("boom")
		f.loader.EXPECT().ReloadSequences(gomock.Any(), "sequences.yaml").Return(errBoom)

		err := d.Dispatch(t.Context(), []string{f.path("sequences.yaml")})
		require.ErrorIs(t, err, errBoom)
		assert.ErrorContains(t, err, "hot reload failed")
	})
}

func TestDispatcher_Tracing(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)
	errBoom := errors.New("boom")

	index := rulewatch.NewPathIndex(f.manifest, f.fs)
	d := rulewatch.NewDispatcher(f.manifest, index, f.fs, f.loader, tracer, rulewatch.NoopMetrics, f.logger)

	tracer.EXPECT().Start(gomock.Any(), "rulewatch.dispatch", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		})
	f.loader.EXPECT().ReloadWeapons(gomock.Any(), gomock.Any()).Return(errBoom)
	span.EXPECT().RecordError(errBoom)
	span.EXPECT().End()

	require.Error(t, d.Dispatch(t.Context(), []string{f.path("weapons.yaml")}))
}
