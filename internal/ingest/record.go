// Package ingest implements the fixed-layout client-to-daemon
// datagram: identity fields followed by a variable-length payload.
package ingest

import (
	dlt "github.com/devendranaga/dlt-logger"
)

// Level is the severity a client attaches to a log call.
type Level uint8

const (
	LevelInfo    Level = 1
	LevelVerbose Level = 2
	LevelWarning Level = 3
	LevelError   Level = 4
	LevelFatal   Level = 5
)

// prefixLen is app_id(4) + ctx_id(4) + session_id(4) + log_level(1) + type_info(1).
const prefixLen = 14

// MaxDatagram is the largest ingest datagram the transport accepts.
const MaxDatagram = 4096

// Record is one client-to-daemon ingest datagram, fully decoded.
type Record struct {
	AppID     [4]byte
	ContextID [4]byte
	SessionID [4]byte
	Level     Level
	TypeInfo  uint8
	Payload   []byte
}

// padID right-pads id with 0x00 to 4 bytes, truncating anything longer.
func padID(id string) [4]byte {
	var out [4]byte
	copy(out[:], id)
	return out
}

// NewRecord builds a Record from string identifiers, applying the
// truncate/pad convention C3 uses when constructing outgoing datagrams.
func NewRecord(appID, ctxID, sessionID string, level Level, typeInfo uint8, payload []byte) Record {
	return Record{
		AppID:     padID(appID),
		ContextID: padID(ctxID),
		SessionID: padID(sessionID),
		Level:     level,
		TypeInfo:  typeInfo,
		Payload:   payload,
	}
}

// Marshal serializes r into its wire form.
func (r Record) Marshal() []byte {
	buf := make([]byte, prefixLen+len(r.Payload))
	copy(buf[0:4], r.AppID[:])
	copy(buf[4:8], r.ContextID[:])
	copy(buf[8:12], r.SessionID[:])
	buf[12] = byte(r.Level)
	buf[13] = r.TypeInfo
	copy(buf[14:], r.Payload)
	return buf
}

// Parse decodes a raw datagram into a Record, rejecting anything
// shorter than the fixed prefix.
func Parse(buf []byte) (Record, error) {
	if len(buf) < prefixLen {
		return Record{}, dlt.New("INGEST_PARSE", dlt.CodeMalformedIngest,
			"datagram shorter than the 14-octet fixed prefix")
	}

	var r Record
	copy(r.AppID[:], buf[0:4])
	copy(r.ContextID[:], buf[4:8])
	copy(r.SessionID[:], buf[8:12])
	r.Level = Level(buf[12])
	r.TypeInfo = buf[13]

	payload := buf[14:]
	r.Payload = append([]byte(nil), payload...)
	return r, nil
}
