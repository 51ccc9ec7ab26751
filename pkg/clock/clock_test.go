package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Licencia-api/pkg/clock"
)

func TestReal_UsaLaZonaConfigurada(t *testing.T) {
	loc := time.FixedZone("TRT", 3*60*60)
	now := clock.Real{Location: loc}.Now()
	assert.Equal(t, loc, now.Location())
	assert.Equal(t, time.UTC, clock.Real{}.Now().Location())
}

func TestFake_AvanzaSoloManualmente(t *testing.T) {
	start := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	c := clock.NewFake(start)
	assert.True(t, c.Now().Equal(start))

	c.Advance(24 * time.Hour)
	assert.True(t, c.Now().Equal(start.AddDate(0, 0, 1)))

	c.Set(start)
	assert.True(t, c.Now().Equal(start))
}
