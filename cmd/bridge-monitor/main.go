// Command bridge-monitor is a terminal dashboard that watches the
// bridge's live AIS sentence feed over its status websocket.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
)

const maxHistory = 20

type sentenceMsg string
type connErrMsg error

type model struct {
	addr      string
	sentences []string
	err       error
}

func (m model) Init() tea.Cmd {
	return listen(m.addr)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case sentenceMsg:
		m.sentences = append(m.sentences, string(msg))
		if len(m.sentences) > maxHistory {
			m.sentences = m.sentences[len(m.sentences)-maxHistory:]
		}
	case connErrMsg:
		m.err = msg
	}
	return m, nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	rowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("adsb2ais monitor — %s", m.addr)))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	for _, s := range m.sentences {
		b.WriteString(rowStyle.Render(s))
		b.WriteString("\n")
	}
	b.WriteString("\n(press q to quit)\n")
	return b.String()
}

// listen dials the status websocket and streams sentences back to the
// bubbletea program as messages.
func listen(addr string) tea.Cmd {
	return func() tea.Msg {
		u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
		conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
		if err != nil {
			return connErrMsg(err)
		}
		go readLoop(conn)
		return nil
	}
}

var program *tea.Program

func readLoop(conn *websocket.Conn) {
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if program != nil {
				program.Send(connErrMsg(err))
			}
			return
		}
		if program != nil {
			program.Send(sentenceMsg(string(data)))
		}
	}
}

func main() {
	addr := flag.String("addr", "localhost:8090", "bridge status API host:port")
	flag.Parse()

	m := model{addr: *addr}
	program = tea.NewProgram(m)
	if _, err := program.Run(); err != nil {
		log.New(os.Stderr, "", 0).Fatalf("bridge-monitor: %v", err)
	}
}
