package shell

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(*Session, []string) error { return nil }

func TestRegister_SingleCommand(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	cmd := &Command{Name: "ls", Aliases: []string{"list"}, Run: noop}

	require.NoError(t, r.Register(cmd))

	byName, ok := r.Lookup("ls")
	require.True(t, ok)
	assert.Same(t, cmd, byName)
	byAlias, ok := r.Lookup("list")
	require.True(t, ok)
	assert.Same(t, cmd, byAlias)
}

func TestRegister_KeepsRegistrationOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	for _, name := range []string{"zz", "aa", "mm"} {
		require.NoError(t, r.Register(&Command{Name: name, Run: noop}))
	}

	assert.Equal(t, []string{"zz", "aa", "mm"}, r.Names())
}

func TestRegister_Duplicate(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	first := &Command{Name: "cp", Aliases: []string{"copy"}, Run: noop}
	require.NoError(t, r.Register(first))

	err := r.Register(&Command{Name: "duplicate", Aliases: []string{"copy"}, Run: noop})

	require.ErrorIs(t, err, ErrDuplicateCommand)
	_, ok := r.Lookup("duplicate")
	assert.False(t, ok, "a rejected command must not be partially registered")
	got, _ := r.Lookup("copy")
	assert.Same(t, first, got)
}

func TestRegisterBuiltins_Subset(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	RegisterBuiltins(r, "ls", "exit")

	assert.Equal(t, []string{"ls", "exit"}, r.Names())
	assert.Equal(t, []string{"ls", "list", "exit", "terminate"}, r.Verbs())
	_, ok := r.Lookup("terminate")
	assert.True(t, ok)
}

func TestRegister_Concurrent(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	r := NewRegistry()

	for i := range 100 {
		wg.Go(func() {
			cmd := &Command{Name: fmt.Sprintf("cmd%d", i), Run: noop}
			assert.NoError(t, r.Register(cmd))
			got, ok := r.Lookup(cmd.Name)
			assert.True(t, ok)
			assert.Same(t, cmd, got)
		})
	}
	wg.Wait()
	assert.Len(t, r.Commands(), 100)
}
