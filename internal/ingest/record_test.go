package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dlt "github.com/devendranaga/dlt-logger"
)

func TestNewRecordPadsShortIdentifiers(t *testing.T) {
	r := NewRecord("A", "B", "SESS", LevelInfo, 6, []byte("hi"))
	assert.Equal(t, [4]byte{'A', 0, 0, 0}, r.AppID)
	assert.Equal(t, [4]byte{'B', 0, 0, 0}, r.ContextID)
	assert.Equal(t, [4]byte{'S', 'E', 'S', 'S'}, r.SessionID)
}

func TestNewRecordTruncatesLongIdentifiers(t *testing.T) {
	r := NewRecord("TOOLONG", "ALSOBIG", "SESS", LevelInfo, 6, nil)
	assert.Equal(t, [4]byte{'T', 'O', 'O', 'L'}, r.AppID)
	assert.Equal(t, [4]byte{'A', 'L', 'S', 'O'}, r.ContextID)
}

func TestMarshalParseRoundTrip(t *testing.T) {
	r := NewRecord("APP1", "CTX1", "SESS", LevelInfo, 6, []byte("hi"))
	buf := r.Marshal()

	got, err := Parse(buf)
	require.NoError(t, err)
	assert.Equal(t, r.AppID, got.AppID)
	assert.Equal(t, r.ContextID, got.ContextID)
	assert.Equal(t, r.SessionID, got.SessionID)
	assert.Equal(t, r.Level, got.Level)
	assert.Equal(t, r.TypeInfo, got.TypeInfo)
	assert.Equal(t, r.Payload, got.Payload)
}

func TestMarshalEmptyPayload(t *testing.T) {
	r := NewRecord("APP1", "CTX1", "SESS", LevelInfo, 6, nil)
	buf := r.Marshal()
	assert.Len(t, buf, 14)
}

func TestParseRejectsShortDatagram(t *testing.T) {
	_, err := Parse(make([]byte, 13))
	require.Error(t, err)
	assert.True(t, dlt.IsCode(err, dlt.CodeMalformedIngest))
}

func TestParseAcceptsExactPrefix(t *testing.T) {
	_, err := Parse(make([]byte, 14))
	require.NoError(t, err)
}
