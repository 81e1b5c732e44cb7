package csvsource

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-harm-report/internal/observability"
)

const sampleCSV = `STATE,EVTYPE,FATALITIES,INJURIES,PROPDMG,PROPDMGEXP,CROPDMG,CROPDMGEXP,REMARKS
TX,TORNADO,5,10,10,K,0,,touched down briefly
OK,FLOOD,1,0,2,M,1,M,river crested
TX,TORNADO,3,2,0,,0,,
`

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func newSource(t *testing.T, path string) *Source {
	t.Helper()
	return New(path, slog.Default(), observability.NewMetricsForTesting())
}

func TestLoadRecords(t *testing.T) {
	t.Run("plain CSV", func(t *testing.T) {
		path := writeTemp(t, "storm.csv", []byte(sampleCSV))
		records, err := newSource(t, path).LoadRecords(context.Background())

		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "TORNADO", records[0].EventType)
		assert.Equal(t, 5.0, records[0].Fatalities)
		assert.Equal(t, 10.0, records[0].PropDamageMag)
		assert.Equal(t, "K", records[0].PropDamageExp)
		assert.Equal(t, "M", records[1].CropDamageExp)
		assert.Equal(t, 1.0, records[1].CropDamageMag)
	})

	t.Run("gzip CSV", func(t *testing.T) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write([]byte(sampleCSV))
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		path := writeTemp(t, "storm.csv.gz", buf.Bytes())
		records, err := newSource(t, path).LoadRecords(context.Background())

		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("columns resolved by header name", func(t *testing.T) {
		// Same fields, different order, lowercase headers.
		csv := "evtype,cropdmgexp,cropdmg,propdmgexp,propdmg,injuries,fatalities\nHEAT,,0,B,1,2,3\n"
		path := writeTemp(t, "reordered.csv", []byte(csv))

		records, err := newSource(t, path).LoadRecords(context.Background())

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "HEAT", records[0].EventType)
		assert.Equal(t, 3.0, records[0].Fatalities)
		assert.Equal(t, "B", records[0].PropDamageExp)
	})

	t.Run("ragged rows read missing fields as empty", func(t *testing.T) {
		csv := "EVTYPE,FATALITIES,INJURIES,PROPDMG,PROPDMGEXP,CROPDMG,CROPDMGEXP\nHAIL,0\n"
		path := writeTemp(t, "ragged.csv", []byte(csv))

		records, err := newSource(t, path).LoadRecords(context.Background())

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "HAIL", records[0].EventType)
		assert.Equal(t, "", records[0].PropDamageExp)
	})

	t.Run("missing required column", func(t *testing.T) {
		path := writeTemp(t, "short.csv", []byte("EVTYPE,FATALITIES\nTORNADO,1\n"))

		_, err := newSource(t, path).LoadRecords(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "INJURIES")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := newSource(t, filepath.Join(t.TempDir(), "nope.csv")).LoadRecords(context.Background())
		require.Error(t, err)
	})

	t.Run("header only yields no records", func(t *testing.T) {
		path := writeTemp(t, "empty.csv", []byte("EVTYPE,FATALITIES,INJURIES,PROPDMG,PROPDMGEXP,CROPDMG,CROPDMGEXP\n"))

		records, err := newSource(t, path).LoadRecords(context.Background())

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("cancelled context", func(t *testing.T) {
		path := writeTemp(t, "storm.csv", []byte(sampleCSV))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newSource(t, path).LoadRecords(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}
