// termview: renders the glyphcam ascii feed in a terminal.
//
// Connects to a running glyphcam service and repaints the block on every
// frame. Ctrl+C to exit.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/glyphcam/glyphcam/internal/log"
)

var addr = flag.String("addr", "localhost:8090", "glyphcam host:port")

const (
	clearScreen = "\033[2J"
	cursorHome  = "\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

func main() {
	flag.Parse()
	log.Init("warn")

	url := fmt.Sprintf("ws://%s/ws/ascii", *addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", url, err)
		os.Exit(1)
	}
	defer conn.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	frames := make(chan string, 1)
	errs := make(chan error, 1)

	go func() {
		for {
			kind, data, err := conn.ReadMessage()
			if err != nil {
				errs <- err
				return
			}
			if kind != websocket.TextMessage {
				continue
			}
			// Keep only the newest frame; stale blocks are worthless
			select {
			case frames <- string(data):
			default:
			}
		}
	}()

	fmt.Print(clearScreen, hideCursor)
	defer fmt.Print(showCursor)

	for {
		select {
		case <-sigChan:
			fmt.Print(clearScreen, cursorHome)
			return

		case err := <-errs:
			fmt.Print(showCursor)
			fmt.Fprintf(os.Stderr, "\nfeed closed: %v\n", err)
			return

		case block := <-frames:
			fmt.Print(cursorHome)
			fmt.Print(block)
		}
	}
}
