//go:build hardware

package telemetry

import (
	"net/netip"
	"time"

	"github.com/soypat/lneto/tcp"
	"github.com/soypat/lneto/x/xnet"
	mqtt "github.com/soypat/natiu-mqtt"
)

const (
	dialTimeout = 2 * time.Second
	dialRetries = 2
	tcpBufSize  = 512 // the only payload is a sub-160-byte JSON object
)

var (
	pubFlags, _ = mqtt.NewPublishFlags(mqtt.QoS0, true /* retain */, false)
	tcpRxBuf    [tcpBufSize]byte
	tcpTxBuf    [tcpBufSize]byte
)

// MQTTPublisher is the hardware Publisher: one short-lived TCP+MQTT
// connection per boot, dialled, used for a single retained publish,
// and torn down immediately. Grounded on the teacher's mqtt.go
// (tcp.Conn + natiu-mqtt client construction via StackRetrying/
// DoDialTCP, QoS0 publish flags) but with the subscribe/wait-for-
// response half removed — this loader only ever sends, it never
// waits on a reply.
type MQTTPublisher struct {
	stack  *xnet.StackAsync
	broker netip.AddrPort
}

func NewMQTTPublisher(stack *xnet.StackAsync, broker netip.AddrPort) *MQTTPublisher {
	return &MQTTPublisher{stack: stack, broker: broker}
}

func (p *MQTTPublisher) PublishRetained(topic string, payload []byte) error {
	var conn tcp.Conn
	if err := conn.Configure(tcp.ConnConfig{RxBuf: tcpRxBuf[:], TxBuf: tcpTxBuf[:], TxPacketQueueSize: 1}); err != nil {
		return err
	}
	rstack := p.stack.StackRetrying(5 * time.Millisecond)
	lport := uint16(p.stack.Prand32()>>17) + 1024
	if err := rstack.DoDialTCP(&conn, lport, p.broker, dialTimeout, dialRetries); err != nil {
		conn.Abort()
		return err
	}
	defer conn.Abort()

	client := mqtt.NewClient(mqtt.ClientConfig{Decoder: mqtt.DecoderNoAlloc{UserBuffer: tcpRxBuf[:]}})
	var varconn mqtt.VariablesConnect
	varconn.SetDefaultMQTT([]byte("speccyboot"))
	if err := client.StartConnect(&conn, &varconn); err != nil {
		return err
	}

	// Bounded wait for CONNACK, same shape as the teacher's mqtt.go
	// but far shorter: a boot-event beacon that stalls the boot
	// sequence for seconds would violate its own "never gates the
	// boot sequence" requirement.
	for i := 0; i < 5 && !client.IsConnected(); i++ {
		time.Sleep(20 * time.Millisecond)
		client.HandleNext()
	}

	var varpub mqtt.VariablesPublish
	varpub.TopicName = []byte(topic)
	varpub.PacketIdentifier = uint16(p.stack.Prand32())
	return client.PublishPayload(pubFlags, varpub, payload)
}
