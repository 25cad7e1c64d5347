//go:build !hardware

package telemetry

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
)

func TestHandlerWritesToTextSink(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil, nil, nil)
	slog.New(h).Info("boot:start")
	if !bytes.Contains(buf.Bytes(), []byte("boot:start")) {
		t.Fatalf("text sink = %q, missing message", buf.String())
	}
}

func TestHandlerFlashesBorderOnErrorWithErrAttr(t *testing.T) {
	var buf bytes.Buffer
	flasher := &FakeBorderFlasher{}
	colorFor := func(err error) byte { return 7 }
	h := NewHandler(&buf, nil, flasher, colorFor)
	slog.New(h).Error("boot:failed", slog.Any("err", errors.New("no response")))

	if len(flasher.Colors) != 1 || flasher.Colors[0] != 7 {
		t.Fatalf("Colors = %v, want [7]", flasher.Colors)
	}
}

func TestHandlerDoesNotFlashBelowErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	flasher := &FakeBorderFlasher{}
	h := NewHandler(&buf, nil, flasher, func(error) byte { return 7 })
	slog.New(h).Warn("boot:slow", slog.Any("err", errors.New("still trying")))

	if len(flasher.Colors) != 0 {
		t.Fatalf("Colors = %v, want none below Error level", flasher.Colors)
	}
}

func TestHandlerDoesNotFlashWithoutErrAttr(t *testing.T) {
	var buf bytes.Buffer
	flasher := &FakeBorderFlasher{}
	h := NewHandler(&buf, nil, flasher, func(error) byte { return 7 })
	slog.New(h).Error("boot:failed")

	if len(flasher.Colors) != 0 {
		t.Fatalf("Colors = %v, want none without an err attr", flasher.Colors)
	}
}

func TestHandlerWithAttrsPreservesFlashBridge(t *testing.T) {
	var buf bytes.Buffer
	flasher := &FakeBorderFlasher{}
	h := NewHandler(&buf, nil, flasher, func(error) byte { return 3 })
	logger := slog.New(h).With(slog.String("component", "netboot"))
	logger.Error("boot:failed", slog.Any("err", errors.New("x")))

	if len(flasher.Colors) != 1 || flasher.Colors[0] != 3 {
		t.Fatalf("Colors = %v, want [3]", flasher.Colors)
	}
}
