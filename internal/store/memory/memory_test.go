package memory

import (
	"testing"

	"github.com/joao-fontenele/aurana-storefront/internal/store"
	"github.com/joao-fontenele/aurana-storefront/internal/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return New()
	})
}
