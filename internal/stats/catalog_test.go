package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	sprout, ok := c.For("sprout")
	require.True(t, ok)
	require.Len(t, sprout, 11)
	assert.Equal(t, "Incoming SIP requests", sprout[0].Name)
	assert.Equal(t, "BGCF outgoing SIP Successes", sprout[10].Name)

	homestead, ok := c.For("homestead")
	require.True(t, ok)
	require.Len(t, homestead, 8)
	assert.Equal(t, "RTR Successes", homestead[7].Name)

	// Ralf's statistics come from its access log, not the catalog
	_, ok = c.For("ralf")
	assert.False(t, ok)
}

func TestStatistic_Counters(t *testing.T) {
	tests := []struct {
		name string
		stat Statistic
		want []string
	}{
		{
			name: "explicit oids",
			stat: Statistic{Name: "a", OIDs: []string{".1.2", ".1.3"}},
			want: []string{".1.2", ".1.3"},
		},
		{
			name: "base and count",
			stat: Statistic{Name: "b", Base: ".9.9", Count: 3},
			want: []string{".9.9.0", ".9.9.1", ".9.9.2"},
		},
		{
			name: "both",
			stat: Statistic{Name: "c", OIDs: []string{".7"}, Base: ".8", Count: 1},
			want: []string{".7", ".8.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stat.Counters())
		})
	}
}

func TestDefaultCatalog_RangeStatisticsExpandToFifteen(t *testing.T) {
	sprout, _ := DefaultCatalog().For("sprout")
	for _, st := range sprout {
		if st.Count > 0 {
			assert.Len(t, st.Counters(), 15, st.Name)
		}
	}
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "not yaml", yaml: "sprout: [", wantErr: "parse statistics catalog"},
		{name: "missing name", yaml: "sprout:\n  - oids: ['.1']\n", wantErr: "has no name"},
		{name: "count without base", yaml: "sprout:\n  - name: x\n    count: 2\n", wantErr: "no base"},
		{name: "no counters", yaml: "sprout:\n  - name: x\n", wantErr: "no counters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Run("empty path uses built-in", func(t *testing.T) {
		c, err := LoadCatalog("")
		require.NoError(t, err)
		_, ok := c.For("sprout")
		assert.True(t, ok)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("homestead:\n  - name: Only\n    oids: ['.1.1']\n"), 0o644))

		c, err := LoadCatalog(path)
		require.NoError(t, err)
		stats, ok := c.For("homestead")
		require.True(t, ok)
		assert.Equal(t, "Only", stats[0].Name)
		_, ok = c.For("sprout")
		assert.False(t, ok)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestValue_Formatted(t *testing.T) {
	assert.Equal(t, "42", Value{Value: 42}.Formatted())
	assert.Equal(t, "0", Value{}.Formatted())
	assert.Equal(t, "2.5", Value{Value: 2.5}.Formatted())
}
