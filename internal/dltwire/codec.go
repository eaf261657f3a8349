package dltwire

import (
	"encoding/binary"
	"fmt"

	dlt "github.com/devendranaga/dlt-logger"
)

// fixedPrefixLen is header_type + msg_counter + length.
const fixedPrefixLen = 4

// extHeaderLen is message_info + number_of_args + app_id + context_id.
const extHeaderLen = 10

// typedArgFixedLen is the 4-octet type_info tag plus the 2-octet
// string_length field that precede every verbose-mode STRG argument.
const typedArgFixedLen = 6

// LengthOracle returns the total on-wire frame length for a given
// header configuration and payload length, per spec §4.1.
func LengthOracle(std StandardHeader, hasExt bool, payloadLen int) int {
	l := fixedPrefixLen
	if std.HasECUID {
		l += 4
	}
	if std.HasSessionID {
		l += 4
	}
	if std.HasTimestamp {
		l += 4
	}
	if hasExt {
		l += extHeaderLen
	}
	l += typedArgFixedLen
	l += payloadLen + 1 // payload + terminator
	return l
}

// Encode writes a full DLT frame (standard header, optional extended
// header, and a single verbose-mode STRG argument carrying payload)
// into buf. It returns the number of octets written.
//
// The only typeInfo Encode accepts is TypeStrg; every other value
// returns CodeUnsupportedType, since no other argument encoding is
// implemented by this core.
func Encode(std StandardHeader, ext *ExtendedHeader, typeInfo TypeInfo, payload []byte, buf []byte) (int, error) {
	if typeInfo != TypeStrg {
		return 0, dlt.New("ENCODE", dlt.CodeUnsupportedType,
			fmt.Sprintf("type_info %d is not supported, only TypeStrg(%d) is", typeInfo, TypeStrg))
	}

	hasExt := ext != nil
	length := LengthOracle(std, hasExt, len(payload))
	if len(buf) < length {
		return 0, dlt.New("ENCODE", dlt.CodeBufferTooSmall,
			fmt.Sprintf("need %d bytes, have %d", length, len(buf)))
	}

	for i := 0; i < length; i++ {
		buf[i] = 0
	}

	off := 0
	buf[off] = headerType(std, hasExt)
	off++
	buf[off] = std.MessageCount
	off++
	binary.BigEndian.PutUint16(buf[off:], uint16(length))
	off += 2

	if std.HasECUID {
		copy(buf[off:off+4], std.ECUID[:])
		off += 4
	}
	if std.HasSessionID {
		copy(buf[off:off+4], std.SessionID[:])
		off += 4
	}
	if std.HasTimestamp {
		binary.BigEndian.PutUint32(buf[off:], std.Timestamp)
		off += 4
	}

	if hasExt {
		buf[off] = messageInfo(*ext)
		off++
		if ext.Verbose {
			buf[off] = 1
		} else {
			buf[off] = 0
		}
		off++
		copy(buf[off:off+4], ext.AppID[:])
		off += 4
		copy(buf[off:off+4], ext.ContextID[:])
		off += 4
	}

	binary.BigEndian.PutUint32(buf[off:], typeInfoStringBit)
	off += 4

	// String length is written in native (host) byte order, not network
	// order: a deliberate quirk of the original codec, preserved here.
	// Every build target this repo ships for is little-endian.
	strLen := uint16(len(payload) + 1)
	binary.LittleEndian.PutUint16(buf[off:], strLen)
	off += 2

	off += copy(buf[off:], payload)
	buf[off] = 0x00
	off++

	return off, nil
}

// Decode parses a DLT frame written by Encode back into its header
// views and payload. It exists for round-trip testing of the encoder;
// the daemon itself never needs to decode a frame it produced.
func Decode(buf []byte) (std StandardHeader, ext *ExtendedHeader, payload []byte, err error) {
	if len(buf) < fixedPrefixLen {
		return std, nil, nil, dlt.New("DECODE", dlt.CodeMalformedIngest, "buffer shorter than fixed prefix")
	}

	off := 0
	hType := buf[off]
	off++
	std, hasExt := decodeHeaderType(hType)
	std.MessageCount = buf[off]
	off++

	if len(buf) < off+2 {
		return std, nil, nil, dlt.New("DECODE", dlt.CodeMalformedIngest, "truncated length field")
	}
	length := binary.BigEndian.Uint16(buf[off:])
	off += 2

	if int(length) != len(buf) {
		return std, nil, nil, dlt.New("DECODE", dlt.CodeMalformedIngest,
			fmt.Sprintf("length field %d does not match buffer span %d", length, len(buf)))
	}

	if std.HasECUID {
		if len(buf) < off+4 {
			return std, nil, nil, dlt.New("DECODE", dlt.CodeMalformedIngest, "truncated ecu_id")
		}
		copy(std.ECUID[:], buf[off:off+4])
		off += 4
	}
	if std.HasSessionID {
		if len(buf) < off+4 {
			return std, nil, nil, dlt.New("DECODE", dlt.CodeMalformedIngest, "truncated session_id")
		}
		copy(std.SessionID[:], buf[off:off+4])
		off += 4
	}
	if std.HasTimestamp {
		if len(buf) < off+4 {
			return std, nil, nil, dlt.New("DECODE", dlt.CodeMalformedIngest, "truncated timestamp")
		}
		std.Timestamp = binary.BigEndian.Uint32(buf[off:])
		off += 4
	}

	if hasExt {
		if len(buf) < off+extHeaderLen {
			return std, nil, nil, dlt.New("DECODE", dlt.CodeMalformedIngest, "truncated extended header")
		}
		e := decodeMessageInfo(buf[off])
		off++
		numArgs := buf[off]
		off++
		copy(e.AppID[:], buf[off:off+4])
		off += 4
		copy(e.ContextID[:], buf[off:off+4])
		off += 4
		if numArgs > 1 {
			return std, nil, nil, dlt.New("DECODE", dlt.CodeMalformedIngest, "multi-argument payloads are not supported")
		}
		ext = &e
	}

	if len(buf) < off+typedArgFixedLen {
		return std, ext, nil, dlt.New("DECODE", dlt.CodeMalformedIngest, "truncated typed argument header")
	}
	typeInfo := binary.BigEndian.Uint32(buf[off:])
	off += 4
	if typeInfo != typeInfoStringBit {
		return std, ext, nil, dlt.New("DECODE", dlt.CodeMalformedIngest,
			fmt.Sprintf("unsupported or reserved type_info bits 0x%08x", typeInfo))
	}
	strLen := binary.LittleEndian.Uint16(buf[off:])
	off += 2
	if strLen == 0 {
		return std, ext, nil, dlt.New("DECODE", dlt.CodeMalformedIngest, "string_length must be >= 1 (terminator)")
	}
	if len(buf) < off+int(strLen) {
		return std, ext, nil, dlt.New("DECODE", dlt.CodeMalformedIngest, "string_length exceeds remaining buffer")
	}
	strBytes := buf[off : off+int(strLen)]
	if strBytes[len(strBytes)-1] != 0x00 {
		return std, ext, nil, dlt.New("DECODE", dlt.CodeMalformedIngest, "missing string terminator")
	}
	off += int(strLen)

	if off != len(buf) {
		return std, ext, nil, dlt.New("DECODE", dlt.CodeMalformedIngest, "trailing bytes after typed argument")
	}

	payload = strBytes[:len(strBytes)-1]
	return std, ext, payload, nil
}
