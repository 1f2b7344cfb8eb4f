package simulation_test

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports/mocks"
	"go.trai.ch/hotswap/internal/engine/simulation"
	"go.uber.org/mock/gomock"
)

func TestLoop_RunsQueuedTasksInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	loop := simulation.NewLoop(time.Millisecond, mocks.NewMockLogger(ctrl))

	var order []int
	for i := range 3 {
		loop.RunOnNextTick(func(context.Context) error {
			order = append(order, i)
			return nil
		})
	}
	loop.RunOnNextTick(nil)
	assert.Equal(t, 3, loop.Pending())

	require.NoError(t, loop.Step(t.Context()))
	assert.Equal(t, []int{0, 1, 2}, order)
	assert.Equal(t, 0, loop.Pending())
	assert.Equal(t, uint64(1), loop.Tick())
}

func TestLoop_TasksQueuedDuringStepWait(t *testing.T) {
	ctrl := gomock.NewController(t)
	loop := simulation.NewLoop(time.Millisecond, mocks.NewMockLogger(ctrl))

	var ran []string
	loop.RunOnNextTick(func(context.Context) error {
		ran = append(ran, "first")
		loop.RunOnNextTick(func(context.Context) error {
			ran = append(ran, "second")
			return nil
		})
		return nil
	})

	require.NoError(t, loop.Step(t.Context()))
	assert.Equal(t, []string{"first"}, ran)

	require.NoError(t, loop.Step(t.Context()))
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestLoop_WorldStepRunsBeforeTasks(t *testing.T) {
	ctrl := gomock.NewController(t)

	var ran []string
	loop := simulation.NewLoop(time.Millisecond, mocks.NewMockLogger(ctrl),
		simulation.WithStepFunc(func(_ context.Context, tick uint64) error {
			ran = append(ran, "world")
			assert.Equal(t, uint64(1), tick)
			return nil
		}),
	)
	loop.RunOnNextTick(func(context.Context) error {
		ran = append(ran, "task")
		return nil
	})

	require.NoError(t, loop.Step(t.Context()))
	assert.Equal(t, []string{"world", "task"}, ran)
}

func TestLoop_FaultsAreIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	loop := simulation.NewLoop(time.Millisecond, mocks.NewMockLogger(ctrl))

	errBoom := errors.New("boom")
	var last bool
	loop.RunOnNextTick(func(context.Context) error { return errBoom })
	loop.RunOnNextTick(func(context.Context) error { panic("nil map") })
	loop.RunOnNextTick(func(context.Context) error {
		last = true
		return nil
	})

	err := loop.Step(t.Context())
	require.Error(t, err)
	require.ErrorIs(t, err, errBoom)
	assert.ErrorContains(t, err, domain.ErrTickTaskPanicked.Error())
	assert.True(t, last, "tasks after a fault still run")
}

func TestLoop_RunLogsFaultsAndStopsOnCancel(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		logger := mocks.NewMockLogger(ctrl)
		loop := simulation.NewLoop(10*time.Millisecond, logger)

		errBoom := errors.New("boom")
		logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
			assert.ErrorIs(t, err, errBoom)
		})

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- loop.Run(ctx) }()

		loop.RunOnNextTick(func(context.Context) error { return errBoom })
		time.Sleep(35 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, uint64(3), loop.Tick())

		cancel()
		require.ErrorIs(t, <-done, context.Canceled)
	})
}

func TestNewLoop_DefaultInterval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loop := simulation.NewLoop(0, mocks.NewMockLogger(ctrl))

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- loop.Run(ctx) }()

		time.Sleep(domain.DefaultTickInterval*2 + time.Millisecond)
		synctest.Wait()
		assert.Equal(t, uint64(2), loop.Tick())

		cancel()
		<-done
	})
}
