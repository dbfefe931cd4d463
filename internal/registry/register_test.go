package registry_test

import (
	"errors"
	"testing"

	"github.com/specialistvlad/paintworklet/internal/registry"
	"github.com/specialistvlad/paintworklet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) (*registry.Registry, *testutil.FakeBridge, *testutil.FakeContexts) {
	t.Helper()
	bridge := testutil.NewFakeBridge()
	contexts := &testutil.FakeContexts{}
	return registry.New(bridge, contexts.New), bridge, contexts
}

func TestRegisterPaint_Success(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	reg, bridge, contexts := newRegistry(t)
	pc := testutil.NewPaintClass()
	pc.Ctor.Props["inputProperties"] = []string{"--color", "width"}
	pc.Ctor.Props["inputArguments"] = []string{"<length>"}

	err := reg.RegisterPaint(ctx, "ring", pc.Ctor)
	require.NoError(t, err)

	def, ok := reg.Lookup("ring")
	require.True(t, ok)
	assert.Equal(t, "ring", def.Name())
	assert.True(t, def.Valid())
	assert.True(t, def.Alpha(), "alpha defaults to true")
	assert.Equal(t, []string{"--color", "width"}, def.InputProperties())
	assert.Equal(t, []string{"<length>"}, def.InputArguments())
	assert.Same(t, pc.Ctor, def.Constructor())
	assert.Same(t, pc.Ctor.Props["prototype"].(*testutil.Object).Props["paint"], def.PaintFunction())

	require.Len(t, contexts.Made, 1, "one rendering context per registration")
	assert.Same(t, contexts.Made[0], def.Context())
	assert.Same(t, contexts.Made[0], def.ContextValue())
	assert.Equal(t, 0, pc.Constructions, "registration must not construct")
	assert.Equal(t, bridge.Enters, bridge.Exits)
}

func TestRegisterPaint_MissingListsDefaultToEmpty(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	reg, _, _ := newRegistry(t)
	pc := testutil.NewPaintClass()

	require.NoError(t, reg.RegisterPaint(ctx, "plain", pc.Ctor))

	def, _ := reg.Lookup("plain")
	assert.Equal(t, []string{}, def.InputProperties())
	assert.Equal(t, []string{}, def.InputArguments())
	assert.NotNil(t, def.InputArguments(), "copies of an empty list stay non-nil")
}

func TestPaintDefinition_ListsAreCopies(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	reg, _, _ := newRegistry(t)
	pc := testutil.NewPaintClass()
	pc.Ctor.Props["inputProperties"] = []string{"--a"}
	require.NoError(t, reg.RegisterPaint(ctx, "p", pc.Ctor))
	def, _ := reg.Lookup("p")

	props := def.InputProperties()
	props[0] = "--changed"

	assert.Equal(t, []string{"--a"}, def.InputProperties())
}

func TestRegisterPaint_AlphaFalse(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	reg, _, contexts := newRegistry(t)
	pc := testutil.NewPaintClass()
	pc.Ctor.Props["alpha"] = false

	require.NoError(t, reg.RegisterPaint(ctx, "opaque", pc.Ctor))

	def, _ := reg.Lookup("opaque")
	assert.False(t, def.Alpha())
	assert.False(t, contexts.Made[0].Alpha)
}

func TestRegisterPaint_EmptyName(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	reg, _, contexts := newRegistry(t)

	err := reg.RegisterPaint(ctx, "", testutil.NewPaintClass().Ctor)

	require.ErrorIs(t, err, registry.ErrEmptyName)
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, contexts.Made)
}

func TestRegisterPaint_AlreadyRegistered(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	reg, _, contexts := newRegistry(t)
	first := testutil.NewPaintClass()
	second := testutil.NewPaintClass()
	require.NoError(t, reg.RegisterPaint(ctx, "dots", first.Ctor))

	err := reg.RegisterPaint(ctx, "dots", second.Ctor)

	require.ErrorIs(t, err, registry.ErrAlreadyRegistered)
	def, _ := reg.Lookup("dots")
	assert.Same(t, first.Ctor, def.Constructor(), "first definition must be untouched")
	assert.True(t, def.Valid())
	assert.Len(t, contexts.Made, 1)
}

func TestRegisterPaint_Rejections(t *testing.T) {
	thrown := errors.New("getter threw")

	testCases := []struct {
		name    string
		mutate  func(pc *testutil.PaintClass) any
		want    error
		wantErr error
	}{
		{
			name:   "plain object is not a constructor",
			mutate: func(pc *testutil.PaintClass) any { return testutil.NewObject() },
			want:   registry.ErrNotConstructor,
		},
		{
			name:   "number is not a constructor",
			mutate: func(pc *testutil.PaintClass) any { return 42 },
			want:   registry.ErrNotConstructor,
		},
		{
			name: "prototype is not an object",
			mutate: func(pc *testutil.PaintClass) any {
				pc.Ctor.Props["prototype"] = "nope"
				return pc.Ctor
			},
			want: registry.ErrPrototypeNotObject,
		},
		{
			name: "missing paint",
			mutate: func(pc *testutil.PaintClass) any {
				delete(pc.Ctor.Props["prototype"].(*testutil.Object).Props, "paint")
				return pc.Ctor
			},
			want: registry.ErrPaintNotCallable,
		},
		{
			name: "paint is a non-callable object",
			mutate: func(pc *testutil.PaintClass) any {
				pc.Ctor.Props["prototype"].(*testutil.Object).Props["paint"] = testutil.NewObject()
				return pc.Ctor
			},
			want: registry.ErrPaintNotCallable,
		},
		{
			name: "throwing inputProperties getter",
			mutate: func(pc *testutil.PaintClass) any {
				pc.Ctor.Props["inputProperties"] = testutil.Getter(func() (any, error) { return nil, thrown })
				return pc.Ctor
			},
			want:    registry.ErrPropertyAccess,
			wantErr: thrown,
		},
		{
			name: "inputArguments is not a sequence",
			mutate: func(pc *testutil.PaintClass) any {
				pc.Ctor.Props["inputArguments"] = 7
				return pc.Ctor
			},
			want: registry.ErrPropertyAccess,
		},
		{
			name: "throwing alpha getter",
			mutate: func(pc *testutil.PaintClass) any {
				pc.Ctor.Props["alpha"] = testutil.Getter(func() (any, error) { return nil, thrown })
				return pc.Ctor
			},
			want:    registry.ErrPropertyAccess,
			wantErr: thrown,
		},
		{
			name: "throwing paint getter",
			mutate: func(pc *testutil.PaintClass) any {
				pc.Ctor.Props["prototype"].(*testutil.Object).Props["paint"] = testutil.Getter(func() (any, error) { return nil, thrown })
				return pc.Ctor
			},
			want:    registry.ErrPropertyAccess,
			wantErr: thrown,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.LogContext(t)
			reg, bridge, contexts := newRegistry(t)
			ctor := tc.mutate(testutil.NewPaintClass())

			err := reg.RegisterPaint(ctx, "broken", ctor)

			require.ErrorIs(t, err, tc.want)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			_, ok := reg.Lookup("broken")
			assert.False(t, ok)
			assert.Empty(t, contexts.Made)
			assert.False(t, bridge.HasPendingException(), "pending exception must not leak")
			assert.Equal(t, 0, bridge.Depth)
		})
	}
}

// A throwing metadata getter is reported before the constructor check,
// even when the value would also fail that check.
func TestRegisterPaint_PropertyErrorMasksNotConstructor(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	reg, _, _ := newRegistry(t)
	notACtor := testutil.NewObject()
	notACtor.Props["inputProperties"] = testutil.Getter(func() (any, error) {
		return nil, errors.New("boom")
	})

	err := reg.RegisterPaint(ctx, "masked", notACtor)

	require.ErrorIs(t, err, registry.ErrPropertyAccess)
	assert.NotErrorIs(t, err, registry.ErrNotConstructor)
	var regErr *registry.RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "inputProperties", regErr.Property)
}

func TestRegistry_IndependentNames(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	reg, _, contexts := newRegistry(t)
	require.NoError(t, reg.RegisterPaint(ctx, "b", testutil.NewPaintClass().Ctor))
	require.NoError(t, reg.RegisterPaint(ctx, "a", testutil.NewPaintClass().Ctor))

	assert.Equal(t, []string{"a", "b"}, reg.Names())

	a, _ := reg.Lookup("a")
	b, _ := reg.Lookup("b")
	a.Invalidate()
	assert.False(t, a.Valid())
	assert.True(t, b.Valid())
	assert.NotSame(t, a.Context(), b.Context())

	require.NoError(t, reg.Close())
	for _, c := range contexts.Made {
		assert.True(t, c.Closed)
	}
}
