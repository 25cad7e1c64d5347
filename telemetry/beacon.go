package telemetry

// BootOutcome summarizes what happened at the end of a boot attempt,
// for the single retained message PublishBoot sends.
type BootOutcome struct {
	Success   bool
	ImageName string // snapshot filename fetched over TFTP
	ErrorKind string // empty on success; otherwise a short error tag
}

// Publisher is the narrow contract the boot-event beacon needs: a
// single best-effort retained publish. Grounded on the teacher's
// mqtt.go client construction, reduced to the one operation this
// loader actually performs — a publish-and-forget, never a
// subscribe/wait round trip, since there is nothing here to respond
// to a reply.
type Publisher interface {
	PublishRetained(topic string, payload []byte) error
}

const bootTopicPrefix = "speccyboot/"
const bootTopicSuffix = "/boot"

// BootTopic returns the retained topic a given device publishes its
// boot outcome to.
func BootTopic(deviceID string) string {
	return bootTopicPrefix + deviceID + bootTopicSuffix
}

// PublishBoot encodes outcome as a small JSON object and publishes it
// retained. It returns whatever error p.PublishRetained returns (nil
// for a nil p) and never blocks the caller beyond the bounded timeout
// p.PublishRetained itself enforces. The beacon is best-effort, so the
// caller may discard that error, as main does.
func PublishBoot(p Publisher, deviceID string, outcome BootOutcome) error {
	if p == nil {
		return nil
	}
	var buf [160]byte
	n := encodeBootOutcome(buf[:], deviceID, outcome)
	return p.PublishRetained(BootTopic(deviceID), buf[:n])
}

// encodeBootOutcome writes a compact JSON object into buf and returns
// the number of bytes written, truncating rather than overflowing —
// the same zero-allocation buffer-writer idiom as the teacher's
// telemetry/json.go, reduced to the one small fixed-shape record this
// loader ever emits.
func encodeBootOutcome(buf []byte, deviceID string, o BootOutcome) int {
	w := jsonWriter{buf: buf}
	w.raw(`{"device":`)
	w.str(deviceID)
	w.raw(`,"success":`)
	if o.Success {
		w.raw("true")
	} else {
		w.raw("false")
	}
	if o.ImageName != "" {
		w.raw(`,"image":`)
		w.str(o.ImageName)
	}
	if o.ErrorKind != "" {
		w.raw(`,"error":`)
		w.str(o.ErrorKind)
	}
	w.raw("}")
	return w.pos
}

type jsonWriter struct {
	buf []byte
	pos int
}

func (w *jsonWriter) raw(s string) {
	n := copy(w.buf[w.pos:], s)
	w.pos += n
}

func (w *jsonWriter) str(s string) {
	w.rawByte('"')
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch b {
		case '"', '\\':
			w.rawByte('\\')
			w.rawByte(b)
		default:
			if b >= 32 && b < 127 {
				w.rawByte(b)
			}
		}
	}
	w.rawByte('"')
}

func (w *jsonWriter) rawByte(b byte) {
	if w.pos < len(w.buf) {
		w.buf[w.pos] = b
		w.pos++
	}
}
