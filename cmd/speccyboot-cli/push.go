package main

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"speccyboot/romupdate"
)

// defaultUpdatePort is the TCP port a device in romupdate maintenance
// mode listens on.
const defaultUpdatePort = 4243

func runPush(args []string) error {
	fs := newFlagSet("push")
	host := fs.String("host", "", "device IP address (required)")
	port := fs.Int("port", defaultUpdatePort, "device update-mode TCP port")
	image := fs.String("image", "", "new loader image to push (required)")
	password := fs.String("password", "", "admin password (or use "+adminPasswordEnv+" env var)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *host == "" || *image == "" {
		return fmt.Errorf("push: -host and -image are required")
	}

	// push burns a new loader image onto the device's flash; gate it
	// behind the same admin password serve uses.
	if err := requireAdminPassword(*password); err != nil {
		return fmt.Errorf("push: %w", err)
	}

	data, err := os.ReadFile(*image)
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	if len(data) > romupdate.MaxImageSize {
		return fmt.Errorf("push: %s is %d bytes, exceeds the %d-byte bank size", *image, len(data), romupdate.MaxImageSize)
	}

	addr := net.JoinHostPort(*host, fmt.Sprint(*port))
	fmt.Printf("connecting to %s...\n", addr)
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	defer conn.Close()

	if err := pushImage(conn, data); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	fmt.Println("image verified; device armed pending confirm")
	return nil
}

// pushImage speaks the client side of romupdate.Receiver's protocol:
// announce the size, wait for READY, stream PageSize chunks with an
// ACK expected after each, then close with a hash line and wait for
// VERIFIED.
func pushImage(conn net.Conn, data []byte) error {
	br := bufio.NewReader(conn)

	fmt.Fprintf(conn, "%s%d\n", romupdate.InitPrefix, len(data))
	if err := expectLine(br, strings.TrimSuffix(romupdate.RespReady, "\n")); err != nil {
		return err
	}

	hasher := sha256.New()
	total := len(data)
	for off := 0; off < total; off += romupdate.PageSize {
		end := off + romupdate.PageSize
		if end > total {
			end = total
		}
		chunk := data[off:end]

		lenBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(chunk)))
		if _, err := conn.Write(lenBuf); err != nil {
			return err
		}
		if _, err := conn.Write(chunk); err != nil {
			return err
		}
		hasher.Write(chunk)

		if err := expectLine(br, strings.TrimSuffix(romupdate.RespAck, "\n")); err != nil {
			return err
		}
		fmt.Printf("\r[%3d%%] %d/%d bytes", (off+len(chunk))*100/total, off+len(chunk), total)
	}
	fmt.Println()

	sum := hex.EncodeToString(hasher.Sum(nil))
	fmt.Fprintf(conn, "DONE %s\n", sum)

	line, err := br.ReadString('\n')
	if err != nil {
		return err
	}
	line = strings.TrimSpace(line)
	if line != strings.TrimSuffix(romupdate.RespVerified, "\n") {
		return fmt.Errorf("device rejected image: %s", line)
	}
	return nil
}

func expectLine(br *bufio.Reader, want string) error {
	line, err := br.ReadString('\n')
	if err != nil {
		return err
	}
	line = strings.TrimSpace(line)
	if line != want {
		return fmt.Errorf("unexpected response: %s", line)
	}
	return nil
}
