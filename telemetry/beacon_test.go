//go:build !hardware

package telemetry

import (
	"errors"
	"strings"
	"testing"
)

var errBrokerUnreachable = errors.New("broker unreachable")

func TestPublishBootSuccessPayload(t *testing.T) {
	pub := &FakePublisher{}
	if err := PublishBoot(pub, "spec01", BootOutcome{Success: true, ImageName: "game.z80"}); err != nil {
		t.Fatalf("PublishBoot: %v", err)
	}
	if pub.Calls != 1 {
		t.Fatalf("Calls = %d, want 1", pub.Calls)
	}
	if pub.Topic != "speccyboot/spec01/boot" {
		t.Fatalf("Topic = %q, want speccyboot/spec01/boot", pub.Topic)
	}
	body := string(pub.Payload)
	for _, want := range []string{`"device":"spec01"`, `"success":true`, `"image":"game.z80"`} {
		if !strings.Contains(body, want) {
			t.Errorf("payload %q missing %q", body, want)
		}
	}
	if strings.Contains(body, `"error"`) {
		t.Errorf("success payload should not contain an error field: %q", body)
	}
}

func TestPublishBootFailurePayload(t *testing.T) {
	pub := &FakePublisher{}
	PublishBoot(pub, "spec01", BootOutcome{Success: false, ErrorKind: "no-network-response"})
	body := string(pub.Payload)
	if !strings.Contains(body, `"success":false`) || !strings.Contains(body, `"error":"no-network-response"`) {
		t.Fatalf("unexpected payload: %q", body)
	}
}

func TestPublishBootNilPublisherIsNoop(t *testing.T) {
	if err := PublishBoot(nil, "spec01", BootOutcome{Success: true}); err != nil {
		t.Fatalf("PublishBoot with nil Publisher: %v", err)
	}
}

func TestPublishBootSurfacesBrokerError(t *testing.T) {
	pub := &FakePublisher{Err: errBrokerUnreachable}
	if err := PublishBoot(pub, "spec01", BootOutcome{Success: true}); err != errBrokerUnreachable {
		t.Fatalf("PublishBoot should surface the publisher's own error to its caller, got %v", err)
	}
}
