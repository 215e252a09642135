package deferkit_test

import (
	"testing"

	"go.llib.dev/deferkit"
	"go.llib.dev/testcase/assert"
	"go.llib.dev/testcase/random"
	"go.uber.org/goleak"
)

var rnd = random.New(random.CryptoSeed{})

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestToAction_smoke(t *testing.T) {
	expErr := rnd.Error()

	t.Run("on Action", func(t *testing.T) {
		afn := deferkit.Action(func() error { return expErr })
		assert.Equal(t, expErr, deferkit.ToAction(afn)())
	})

	t.Run("on func() error", func(t *testing.T) {
		afn := func() error { return expErr }
		assert.Equal(t, expErr, deferkit.ToAction(afn)())
	})

	t.Run("on func()", func(t *testing.T) {
		var ran bool
		afn := func() { ran = true }
		assert.NoError(t, deferkit.ToAction(afn)())
		assert.True(t, ran)
	})

	t.Run("on nil Action", func(t *testing.T) {
		assert.Nil(t, deferkit.ToAction(deferkit.Action(nil)))
	})

	t.Run("on nil func() error", func(t *testing.T) {
		assert.Nil(t, deferkit.ToAction[func() error](nil))
	})

	t.Run("on nil func()", func(t *testing.T) {
		assert.Nil(t, deferkit.ToAction[func()](nil))
	})
}

func TestNew_scopeOrdering(t *testing.T) {
	var out []string
	note := func(s string) func() {
		return func() { out = append(out, s) }
	}
	func() {
		a := deferkit.New(note("A"))
		defer a.Finish()
		b := deferkit.New(note("B"))
		defer b.Finish()
		c := deferkit.New(note("C"))
		defer c.Finish()
	}()
	assert.Equal(t, []string{"C", "B", "A"}, out)
}

func TestNew_scopeOrdering_cancelledGuardIsSkipped(t *testing.T) {
	var out []string
	note := func(s string) func() {
		return func() { out = append(out, s) }
	}
	func() {
		a := deferkit.New(note("A"))
		defer a.Finish()
		b := deferkit.New(note("B"))
		defer b.Finish()
		c := deferkit.New(note("C"))
		defer c.Finish()

		assert.True(t, b.Cancel())
	}()
	assert.Equal(t, []string{"C", "A"}, out)
}
