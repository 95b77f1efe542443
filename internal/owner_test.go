package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwner(t *testing.T) {
	t.Run("disposes children before itself", func(t *testing.T) {
		log := []string{}

		o := NewOwner()
		o.OnCleanup(func() { log = append(log, "parent") })

		first := o.NewChild()
		first.OnCleanup(func() { log = append(log, "first") })

		second := o.NewChild()
		second.OnCleanup(func() { log = append(log, "second") })

		o.Dispose()

		assert.Equal(t, []string{"second", "first", "parent"}, log)
		assert.True(t, first.Disposed())
		assert.True(t, second.Disposed())
	})

	t.Run("disposes once", func(t *testing.T) {
		count := 0

		o := NewOwner()
		o.OnCleanup(func() { count++ })

		o.Dispose()
		o.Dispose()

		assert.Equal(t, 1, count)
	})

	t.Run("cleanups registered while disposing run", func(t *testing.T) {
		log := []string{}

		o := NewOwner()
		o.OnCleanup(func() {
			log = append(log, "outer")
			o.OnCleanup(func() { log = append(log, "inner") })
		})

		o.Dispose()

		assert.Equal(t, []string{"outer", "inner"}, log)
	})

	t.Run("late cleanups run right away", func(t *testing.T) {
		ran := false

		o := NewOwner()
		o.Dispose()
		o.OnCleanup(func() { ran = true })

		assert.True(t, ran)
	})

	t.Run("disposed child detaches", func(t *testing.T) {
		o := NewOwner()
		a, b, c := o.NewChild(), o.NewChild(), o.NewChild()

		b.Dispose()

		children := []*Owner{}
		for child := range o.Children() {
			children = append(children, child)
		}
		assert.Equal(t, []*Owner{c, a}, children)
	})

	t.Run("dispose children keeps the parent", func(t *testing.T) {
		log := []string{}

		o := NewOwner()
		o.OnCleanup(func() { log = append(log, "parent") })
		o.NewChild().OnCleanup(func() { log = append(log, "child") })

		o.DisposeChildren()
		assert.Equal(t, []string{"child"}, log)
		assert.False(t, o.Disposed())

		o.Dispose()
		assert.Equal(t, []string{"child", "parent"}, log)
	})
}
