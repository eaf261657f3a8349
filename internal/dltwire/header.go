// Package dltwire implements the AUTOSAR PRS_Dlt wire frame: the
// standard header, the optional extended header, and the single
// verbose-mode typed argument this core emits.
package dltwire

// Standard-header flag bits, from LSB (PRS_Dlt §standard header).
const (
	flagUseExtHeader byte = 0x01 // UEH
	flagMSBFirst     byte = 0x02 // MSBF
	flagWithECUID    byte = 0x04 // WEID
	flagWithSession  byte = 0x08 // WSID
	flagWithTime     byte = 0x10 // WTMS
	versionShift          = 5
	versionMask      byte = 0x07
)

// MessageType is the extended-header MSTP class.
type MessageType uint8

const (
	MsgTypeLog      MessageType = 0
	MsgTypeAppTrace MessageType = 1
	MsgTypeNwTrace  MessageType = 2
	MsgTypeControl  MessageType = 3
)

// Log-class MTIN subcodes.
const (
	LogFatal   uint8 = 1
	LogError   uint8 = 2
	LogWarn    uint8 = 3
	LogInfo    uint8 = 4
	LogDebug   uint8 = 5
	LogVerbose uint8 = 6
)

// App-trace MTIN subcodes.
const (
	TraceVariable    uint8 = 1
	TraceFunctionIn  uint8 = 2
	TraceFunctionOut uint8 = 3
	TraceState       uint8 = 4
	TraceVFB         uint8 = 5
)

// Network-trace MTIN subcodes.
const (
	NwTraceIPC      uint8 = 0
	NwTraceCAN      uint8 = 1
	NwTraceFlexRay  uint8 = 2
	NwTraceMOST     uint8 = 3
	NwTraceEthernet uint8 = 4
	NwTraceSomeIP   uint8 = 5
)

// Control MTIN subcodes.
const (
	ControlRequest  uint8 = 0
	ControlResponse uint8 = 1
)

// TypeInfo identifies the verbose-mode argument's wire representation.
// Only TypeStrg is accepted by Encode; the rest are reserved.
type TypeInfo uint8

const (
	TypeBool TypeInfo = 1
	TypeSint TypeInfo = 2
	TypeUint TypeInfo = 3
	TypeFloa TypeInfo = 4
	TypeAray TypeInfo = 5
	TypeStrg TypeInfo = 6
	TypeRawd TypeInfo = 7
	TypeVari TypeInfo = 8
	TypeFixp TypeInfo = 9
	TypeTrai TypeInfo = 10
	TypeStru TypeInfo = 11
)

// typeInfoStringBit is the verbose-mode type-info bit marking a string
// argument; set on the wire in the 4-octet type-info field.
const typeInfoStringBit uint32 = 0x00020000

// StandardHeader is the always-present prefix of a DLT frame, plus the
// conditional ECU/session/timestamp fields gated by the Has* flags.
type StandardHeader struct {
	MSBFirst      bool
	HasECUID      bool
	ECUID         [4]byte
	HasSessionID  bool
	SessionID     [4]byte
	HasTimestamp  bool
	Timestamp     uint32 // 0.1ms units
	Version       uint8  // 0..7
	MessageCount  uint8
}

// ExtendedHeader is present iff the frame carries UEH=1.
type ExtendedHeader struct {
	Verbose   bool
	MsgType   MessageType
	Subtype   uint8
	AppID     [4]byte
	ContextID [4]byte
}

// headerType packs the standard-header flag octet.
func headerType(std StandardHeader, hasExt bool) byte {
	var b byte
	if hasExt {
		b |= flagUseExtHeader
	}
	if std.MSBFirst {
		b |= flagMSBFirst
	}
	if std.HasECUID {
		b |= flagWithECUID
	}
	if std.HasSessionID {
		b |= flagWithSession
	}
	if std.HasTimestamp {
		b |= flagWithTime
	}
	b |= (std.Version & versionMask) << versionShift
	return b
}

// messageInfo packs the extended-header message-info octet.
func messageInfo(ext ExtendedHeader) byte {
	var b byte
	if ext.Verbose {
		b |= 0x01
	}
	b |= (byte(ext.MsgType) & 0x07) << 1
	b |= (ext.Subtype & 0x0F) << 4
	return b
}

// decodeHeaderType unpacks the standard-header flag octet.
func decodeHeaderType(b byte) (std StandardHeader, hasExt bool) {
	hasExt = b&flagUseExtHeader != 0
	std.MSBFirst = b&flagMSBFirst != 0
	std.HasECUID = b&flagWithECUID != 0
	std.HasSessionID = b&flagWithSession != 0
	std.HasTimestamp = b&flagWithTime != 0
	std.Version = (b >> versionShift) & versionMask
	return std, hasExt
}

func decodeMessageInfo(b byte) ExtendedHeader {
	return ExtendedHeader{
		Verbose: b&0x01 != 0,
		MsgType: MessageType((b >> 1) & 0x07),
		Subtype: (b >> 4) & 0x0F,
	}
}
