package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iljabvh/firstserve/internal/model"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func makePlayers() []model.PlayerRecord {
	mk := func(name string, played, won int, serve float64, obs int) model.PlayerRecord {
		p := model.NewPlayerRecord(name, []string{"FirstServePCT"})
		p.MatchesPlayed, p.MatchesWon = played, won
		if played > 0 {
			p.WinRate = float64(won) / float64(played)
		}
		p.Stats["FirstServePCT"] = model.StatisticField{Value: serve, Observations: obs}
		return p
	}
	return []model.PlayerRecord{
		mk("A", 600, 420, 0.64, 590),
		mk("B", 520, 260, 0.58, 40),
		mk("C", 12, 9, 0.70, 12),
		mk("D", 0, 0, 0, 0),
	}
}

func TestPoints_WinRate(t *testing.T) {
	got := Points(makePlayers(), WinRate, 500)
	assert.Equal(t, []Point{
		{Name: "A", Samples: 600, Value: 0.7},
		{Name: "B", Samples: 520, Value: 0.5},
	}, got)
}

func TestPoints_Statistic(t *testing.T) {
	got := Points(makePlayers(), "FirstServePCT", 10)
	require.Len(t, got, 3)
	assert.Equal(t, "B", got[1].Name)
	assert.Equal(t, 40, got[1].Samples)

	assert.Empty(t, Points(makePlayers(), "Aces", 0))
}

func TestScatter(t *testing.T) {
	png, err := Scatter(Points(makePlayers(), WinRate, 1), WinRate, true)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestScatter_NoData(t *testing.T) {
	png, err := Scatter(nil, "FirstServePCT", false)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}
