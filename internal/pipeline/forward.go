package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/devendranaga/dlt-logger/internal/config"
	"github.com/devendranaga/dlt-logger/internal/consolelog"
	"github.com/devendranaga/dlt-logger/internal/dltwire"
	"github.com/devendranaga/dlt-logger/internal/ingest"
	"github.com/devendranaga/dlt-logger/internal/transport"
)

// cadence is the drain loop's polling period.
const cadence = 100 * time.Millisecond

// counterModulus matches the original service's message counter wrap
// point: the 255th emitted frame wraps the count back to 0.
const counterModulus = 255

// levelSubtype maps an ingest level to its extended-header MTIN
// subcode under the LOG message class. An ingest level with no entry
// here is UNKNOWN_LEVEL: the record is dropped without advancing the
// counter.
var levelSubtype = map[ingest.Level]uint8{
	ingest.LevelInfo:    dltwire.LogInfo,
	ingest.LevelVerbose: dltwire.LogVerbose,
	ingest.LevelWarning: dltwire.LogWarn,
	ingest.LevelError:   dltwire.LogError,
	ingest.LevelFatal:   dltwire.LogFatal,
}

var levelName = map[ingest.Level]string{
	ingest.LevelInfo:    "info",
	ingest.LevelVerbose: "verbose",
	ingest.LevelWarning: "warning",
	ingest.LevelError:   "error",
	ingest.LevelFatal:   "fatal",
}

// Forwarder is the C5 encode/forward stage: a background drain loop
// that turns queued ingest records into DLT frames.
type Forwarder struct {
	queue   *Queue
	writer  transport.PacketWriter
	cfg     *config.Config
	ecuID   [4]byte
	startAt time.Time
	counter uint8

	// tick overrides the cadence sleep in tests; nil means real time.
	tick <-chan time.Time
}

// NewForwarder builds a Forwarder draining queue and sending encoded
// frames through writer, per the snapshot in cfg.
func NewForwarder(queue *Queue, writer transport.PacketWriter, cfg *config.Config) *Forwarder {
	var ecu [4]byte
	copy(ecu[:], cfg.HTypeECUID)
	return &Forwarder{
		queue:   queue,
		writer:  writer,
		cfg:     cfg,
		ecuID:   ecu,
		startAt: time.Now(),
	}
}

// Run drains the queue on cadence until ctx is canceled.
func (f *Forwarder) Run(ctx context.Context) {
	ticker := time.NewTicker(cadence)
	defer ticker.Stop()

	tick := f.tick
	if tick == nil {
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			f.drainOnce()
			return
		case <-tick:
			f.drainOnce()
		}
	}
}

func (f *Forwarder) drainOnce() {
	for _, rec := range f.queue.DrainAll() {
		f.emit(rec)
	}
}

// emit encodes and sends a single record, advancing the counter only
// on a successful encode (a send failure still counts as emitted,
// since the frame was produced).
func (f *Forwarder) emit(rec ingest.Record) {
	subtype, ok := levelSubtype[rec.Level]
	if !ok {
		consolelog.Debugf("dropping record with unknown level %d", rec.Level)
		return
	}

	std := dltwire.StandardHeader{
		MSBFirst:     f.cfg.HTypeMSBFirst,
		HasECUID:     f.cfg.HTypeSendECUID,
		ECUID:        f.ecuID,
		HasSessionID: true,
		SessionID:    rec.SessionID,
		Version:      f.cfg.HTypeVersion,
		MessageCount: f.counter,
	}
	if f.cfg.HTypeSendTimestamp {
		std.HasTimestamp = true
		std.Timestamp = uint32(time.Since(f.startAt).Microseconds() / 100)
	}

	var ext *dltwire.ExtendedHeader
	if f.cfg.HTypeUseExtendedHdr {
		ext = &dltwire.ExtendedHeader{
			Verbose:   f.cfg.ExtHdrVerboseMode,
			MsgType:   dltwire.MsgTypeLog,
			Subtype:   subtype,
			AppID:     rec.AppID,
			ContextID: rec.ContextID,
		}
	}

	buf := getScratch()
	defer putScratch(buf)

	n, err := dltwire.Encode(std, ext, dltwire.TypeInfo(rec.TypeInfo), rec.Payload, buf)
	if err != nil {
		consolelog.Debugf("dropping record: encode failed: %v", err)
		return
	}

	if err := f.writer.WritePacket(buf[:n]); err != nil {
		consolelog.Debugf("send to storage endpoint failed: %v", err)
	}

	if f.cfg.LogToConsole {
		f.mirror(rec)
	}

	f.counter = uint8((uint16(f.counter) + 1) % counterModulus)
}

// mirror writes the fixed-format console line: this is part of the
// wire-adjacent contract under test, so it bypasses the operational
// logger and goes to stderr directly via Errorf-less fmt.
func (f *Forwarder) mirror(rec ingest.Record) {
	name, ok := levelName[rec.Level]
	if !ok {
		name = "unknown"
	}
	fmt.Fprintf(os.Stderr, "[%s] [%d] [%s][%s] [%s] %s\n",
		trimTrailingZeros(f.ecuID[:]),
		f.counter,
		trimTrailingZeros(rec.AppID[:]),
		trimTrailingZeros(rec.ContextID[:]),
		name,
		rec.Payload,
	)
}

func trimTrailingZeros(b []byte) string {
	i := len(b)
	for i > 0 && b[i-1] == 0 {
		i--
	}
	return string(b[:i])
}
