package bridge

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/unklstewy/adsb2ais/pkg/config"
)

func newTestBridge(t *testing.T) (*Bridge, string) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.AISSenderTCP.Host = "127.0.0.1"
	cfg.AISSenderTCP.Port = 0
	cfg.StatusHTTP.Enabled = false

	b := New(cfg, nil)
	if err := b.fan.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(b.Stop)
	return b, b.fan.Addr()
}

func TestHandleLineEndToEndProducesAISSentence(t *testing.T) {
	b, addr := newTestBridge(t)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && b.fan.Count() == 0 {
		time.Sleep(5 * time.Millisecond)
	}

	lines := []string{
		"MSG,1,1,1,A1B2C3,1,2024/01/02,03:04:05.000,2024/01/02,03:04:05.000,UAL123,,,,,,,,,,,",
		"MSG,3,1,1,A1B2C3,1,2024/01/02,03:04:05.000,2024/01/02,03:04:05.000,,35000,,,37.5,-122.4,,,,,,",
		"MSG,4,1,1,A1B2C3,1,2024/01/02,03:04:05.000,2024/01/02,03:04:05.000,,,450,270,,,,,,,,",
	}
	for _, line := range lines {
		b.handleLine(line)
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	sentence, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("expected a published AIS sentence: %v", err)
	}
	if !strings.HasPrefix(sentence, "!AIVDM,1,1,,A,") {
		t.Errorf("unexpected sentence: %q", sentence)
	}
}

func TestHandleLineIgnoresIncompleteRecords(t *testing.T) {
	b, addr := newTestBridge(t)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && b.fan.Count() == 0 {
		time.Sleep(5 * time.Millisecond)
	}

	b.handleLine("MSG,1,1,1,DEADBE,1,2024/01/02,03:04:05.000,2024/01/02,03:04:05.000,UAL123,,,,,,,,,,,")

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	buf := make([]byte, 1)
	if _, err := conn.Read(buf); err == nil {
		t.Error("expected no data published for an incomplete record")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	b, _ := newTestBridge(t)
	b.Stop()
	b.Stop()
}
