package config

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestViperProvider_Get_ConcurrentWithReload(t *testing.T) {
	p := &viperProvider{
		config: &Config{App: AppConfig{Version: "0"}},
		logger: zap.NewNop(),
	}

	const swaps = 500
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= swaps; i++ {
			p.swap(&Config{App: AppConfig{Version: strconv.Itoa(i)}})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < swaps; i++ {
			cfg := p.Get()
			assert.NotNil(t, cfg)
		}
	}()
	wg.Wait()

	assert.Equal(t, strconv.Itoa(swaps), p.Get().App.Version)
}

func TestStatic_ReturnsGivenConfig(t *testing.T) {
	cfg := &Config{API: APIConfig{BaseURL: "http://orza.test/api"}}
	p := Static(cfg)
	assert.Same(t, cfg, p.Get())
}
