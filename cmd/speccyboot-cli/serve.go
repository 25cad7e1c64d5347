package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// tftpRetryWindow bounds how long serveFile waits for an ACK before
// giving up on a transfer; real boot ROMs retry themselves, so this
// server does not bother retransmitting, only timing out.
const tftpRetryWindow = 5 * time.Second

// TFTP opcodes and block size, matching netboot's client exactly
// (RFC 1350, no options negotiated) so a snapshot served here round
// trips through the real loader code path unmodified.
const (
	tftpOpRRQ   = 1
	tftpOpDATA  = 3
	tftpOpACK   = 4
	tftpOpERROR = 5

	tftpBlockSize = 512
)

func runServe(args []string) error {
	fs := newFlagSet("serve")
	dir := fs.String("dir", ".", "directory of snapshot files to serve")
	addr := fs.String("addr", ":69", "UDP address to listen on")
	password := fs.String("password", "", "admin password (or use "+adminPasswordEnv+" env var)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// serve overrides the TFTP root to an arbitrary host directory;
	// gate it behind the same admin password push uses.
	if err := requireAdminPassword(*password); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	pc, err := net.ListenPacket("udp", *addr)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer pc.Close()

	fmt.Printf("serving %s on %s (Ctrl+C to stop)\n", *dir, *addr)

	buf := make([]byte, 1024)
	for {
		n, raddr, err := pc.ReadFrom(buf)
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		req, err := parseRRQ(buf[:n])
		if err != nil {
			fmt.Fprintf(os.Stderr, "serve: %v\n", err)
			continue
		}
		go serveFile(*dir, req, raddr)
	}
}

// parseRRQ decodes a TFTP read request down to its filename, the only
// field this server's clients need: mode is always assumed octet.
func parseRRQ(buf []byte) (string, error) {
	if len(buf) < 4 || buf[0] != 0 || buf[1] != tftpOpRRQ {
		return "", fmt.Errorf("not a read request")
	}
	rest := buf[2:]
	end := strings.IndexByte(string(rest), 0)
	if end < 0 {
		return "", fmt.Errorf("malformed read request")
	}
	return string(rest[:end]), nil
}

// serveFile opens its own UDP socket (as real TFTP servers do: data
// transfer moves to a fresh ephemeral port, leaving the well-known
// port free for the next request) and walks the requested file out in
// tftpBlockSize chunks, waiting for each block's ACK before sending
// the next.
func serveFile(dir, filename string, client net.Addr) {
	path := filepath.Join(dir, filepath.Clean("/"+filename))
	data, err := os.ReadFile(path)
	if err != nil {
		sendError(client, fmt.Sprintf("%s not found", filename))
		return
	}

	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return
	}
	defer conn.Close()

	var block uint16 = 1
	ackBuf := make([]byte, 4)
	for off := 0; ; off += tftpBlockSize {
		end := off + tftpBlockSize
		if end > len(data) {
			end = len(data)
		}
		payload := data[off:end]

		pkt := make([]byte, 0, 4+len(payload))
		pkt = append(pkt, 0, tftpOpDATA, byte(block>>8), byte(block))
		pkt = append(pkt, payload...)
		if _, err := conn.WriteTo(pkt, client); err != nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(tftpRetryWindow))
		n, _, err := conn.ReadFrom(ackBuf)
		if err != nil || n < 4 || ackBuf[1] != tftpOpACK {
			return
		}

		if len(payload) < tftpBlockSize {
			return
		}
		block++
	}
}

func sendError(client net.Addr, msg string) {
	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return
	}
	defer conn.Close()
	pkt := append([]byte{0, tftpOpERROR, 0, 1}, msg...)
	pkt = append(pkt, 0)
	conn.WriteTo(pkt, client)
}
