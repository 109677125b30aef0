package contracts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, []string{"counterv1", "counterv2", "proxy"}, r.Names())

	for _, name := range r.Names() {
		c, err := r.Resolve(Code(name))
		require.NoError(t, err)
		require.NotNil(t, c)
	}
	_, err := r.Resolve(Code("counterv3"))
	require.ErrorIs(t, err, vm.ErrInvalidCode)
}
